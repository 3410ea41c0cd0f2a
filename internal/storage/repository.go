package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"agridom/internal/core"
)

var ErrNotFound = errors.New("record not found")

// Repository persists expense templates and their materialized occurrences
// on SQLite.
type Repository struct {
	db      *sql.DB
	queries *Queries
	logger  *slog.Logger
}

func NewRepository(dbPath string, logger *slog.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Repository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func toRowParams(t core.ExpenseTemplate) CreateExpenseParams {
	p := CreateExpenseParams{
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Cadence:     string(t.Cadence),
		AnchorDate:  t.AnchorDate.String(),
		IsRecurring: t.IsRecurring,
	}
	if !t.EndDate.IsZero() {
		p.EndDate = sql.NullString{String: t.EndDate.String(), Valid: true}
	}
	if t.OriginalTemplateID != nil {
		p.OriginalTemplateID = sql.NullInt64{Int64: *t.OriginalTemplateID, Valid: true}
	}
	return p
}

func fromRow(row ExpenseRow) (core.ExpenseTemplate, error) {
	anchor, err := core.ParseDate(row.AnchorDate)
	if err != nil {
		return core.ExpenseTemplate{}, fmt.Errorf("record %d: anchor date: %w", row.ID, err)
	}
	t := core.ExpenseTemplate{
		ID:          row.ID,
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		Cadence:     core.Cadence(row.Cadence),
		AnchorDate:  anchor,
		IsRecurring: row.IsRecurring,
	}
	if row.EndDate.Valid {
		end, err := core.ParseDate(row.EndDate.String)
		if err != nil {
			return core.ExpenseTemplate{}, fmt.Errorf("record %d: end date: %w", row.ID, err)
		}
		t.EndDate = end
	}
	if row.OriginalTemplateID.Valid {
		id := row.OriginalTemplateID.Int64
		t.OriginalTemplateID = &id
	}
	return t, nil
}

func fromRows(rows []ExpenseRow) ([]core.ExpenseTemplate, error) {
	out := make([]core.ExpenseTemplate, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Repository) CreateTemplate(ctx context.Context, t core.ExpenseTemplate) (core.ExpenseTemplate, error) {
	row, err := r.queries.CreateExpense(ctx, toRowParams(t))
	if err != nil {
		return core.ExpenseTemplate{}, fmt.Errorf("create template: %w", err)
	}
	return fromRow(row)
}

func (r *Repository) GetTemplate(ctx context.Context, id int64) (core.ExpenseTemplate, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseTemplate{}, ErrNotFound
	}
	if err != nil {
		return core.ExpenseTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return fromRow(row)
}

// ListTemplates returns template records only; materialized occurrences are
// excluded so report math never counts an expense twice.
func (r *Repository) ListTemplates(ctx context.Context) ([]core.ExpenseTemplate, error) {
	rows, err := r.queries.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return fromRows(rows)
}

func (r *Repository) ListRecurringTemplates(ctx context.Context) ([]core.ExpenseTemplate, error) {
	rows, err := r.queries.ListRecurringTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	return fromRows(rows)
}

func (r *Repository) UpdateTemplate(ctx context.Context, t core.ExpenseTemplate) error {
	p := UpdateExpenseParams{
		ID:          t.ID,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Cadence:     string(t.Cadence),
		AnchorDate:  t.AnchorDate.String(),
		IsRecurring: t.IsRecurring,
	}
	if !t.EndDate.IsZero() {
		p.EndDate = sql.NullString{String: t.EndDate.String(), Valid: true}
	}
	affected, err := r.queries.UpdateExpense(ctx, p)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTemplate removes a template and, through the foreign key cascade,
// every occurrence it generated.
func (r *Repository) DeleteTemplate(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListOccurrenceDates(ctx context.Context, templateID int64, year, month int) ([]core.Date, error) {
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month, core.DaysInMonth(year, month))
	raw, err := r.queries.ListOccurrenceDates(ctx, templateID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list occurrence dates: %w", err)
	}
	dates := make([]core.Date, 0, len(raw))
	for _, s := range raw {
		d, err := core.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("occurrence date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// InsertOccurrence writes one materialized occurrence. A duplicate for the
// same template and date is absorbed by the unique index and reported as
// created=false.
func (r *Repository) InsertOccurrence(ctx context.Context, t core.ExpenseTemplate, occ core.Occurrence) (bool, error) {
	affected, err := r.queries.InsertOccurrence(ctx, InsertOccurrenceParams{
		Description: t.Description,
		AmountCents: occ.Amount.Cents,
		Date:        occ.Date.String(),
		TemplateID:  occ.TemplateID,
	})
	if err != nil {
		return false, fmt.Errorf("insert occurrence: %w", err)
	}
	if affected == 0 {
		r.logger.Debug("occurrence already materialized",
			slog.Int64("template_id", occ.TemplateID),
			slog.String("date", occ.Date.String()))
		return false, nil
	}
	return true, nil
}

func (r *Repository) GetOccurrenceByDate(ctx context.Context, templateID int64, date core.Date) (core.ExpenseTemplate, error) {
	row, err := r.queries.GetOccurrenceByDate(ctx, templateID, date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseTemplate{}, ErrNotFound
	}
	if err != nil {
		return core.ExpenseTemplate{}, fmt.Errorf("get occurrence: %w", err)
	}
	return fromRow(row)
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to core.Date) ([]core.ExpenseTemplate, error) {
	rows, err := r.queries.ListExpensesByDateRange(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses by range: %w", err)
	}
	return fromRows(rows)
}
