package storage

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds prepared SQL for the expenses table.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// ExpenseRow mirrors one row of the expenses table. Templates and their
// materialized occurrences share the table; an occurrence carries its date
// in AnchorDate and points at its generator via OriginalTemplateID.
type ExpenseRow struct {
	ID                 int64
	Description        string
	AmountCents        int64
	Cadence            string
	AnchorDate         string
	EndDate            sql.NullString
	IsRecurring        bool
	OriginalTemplateID sql.NullInt64
}

const expenseColumns = `id, description, amount_cents, cadence, anchor_date, end_date, is_recurring, original_template_id`

func scanExpense(s interface{ Scan(...any) error }) (ExpenseRow, error) {
	var r ExpenseRow
	err := s.Scan(
		&r.ID,
		&r.Description,
		&r.AmountCents,
		&r.Cadence,
		&r.AnchorDate,
		&r.EndDate,
		&r.IsRecurring,
		&r.OriginalTemplateID,
	)
	return r, err
}

const createExpense = `
INSERT INTO expenses (description, amount_cents, cadence, anchor_date, end_date, is_recurring, original_template_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + expenseColumns

type CreateExpenseParams struct {
	Description        string
	AmountCents        int64
	Cadence            string
	AnchorDate         string
	EndDate            sql.NullString
	IsRecurring        bool
	OriginalTemplateID sql.NullInt64
}

func (q *Queries) CreateExpense(ctx context.Context, p CreateExpenseParams) (ExpenseRow, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		p.Description, p.AmountCents, p.Cadence, p.AnchorDate, p.EndDate, p.IsRecurring, p.OriginalTemplateID)
	return scanExpense(row)
}

const getExpense = `
SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (ExpenseRow, error) {
	return scanExpense(q.db.QueryRowContext(ctx, getExpense, id))
}

const listTemplates = `
SELECT ` + expenseColumns + ` FROM expenses
WHERE original_template_id IS NULL
ORDER BY id`

func (q *Queries) ListTemplates(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listTemplates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

const listRecurringTemplates = `
SELECT ` + expenseColumns + ` FROM expenses
WHERE original_template_id IS NULL AND is_recurring = 1 AND cadence != 'once'
ORDER BY id`

func (q *Queries) ListRecurringTemplates(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecurringTemplates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

const updateExpense = `
UPDATE expenses
SET description = ?, amount_cents = ?, cadence = ?, anchor_date = ?, end_date = ?, is_recurring = ?,
    updated_at = datetime('now')
WHERE id = ? AND original_template_id IS NULL`

type UpdateExpenseParams struct {
	ID          int64
	Description string
	AmountCents int64
	Cadence     string
	AnchorDate  string
	EndDate     sql.NullString
	IsRecurring bool
}

func (q *Queries) UpdateExpense(ctx context.Context, p UpdateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateExpense,
		p.Description, p.AmountCents, p.Cadence, p.AnchorDate, p.EndDate, p.IsRecurring, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteExpense = `
DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listOccurrenceDates = `
SELECT anchor_date FROM expenses
WHERE original_template_id = ? AND anchor_date >= ? AND anchor_date <= ?
ORDER BY anchor_date`

func (q *Queries) ListOccurrenceDates(ctx context.Context, templateID int64, from, to string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listOccurrenceDates, templateID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// insertOccurrence relies on the partial unique index over
// (original_template_id, anchor_date): a concurrent duplicate insert is
// absorbed by ON CONFLICT and reported through the affected-row count.
const insertOccurrence = `
INSERT INTO expenses (description, amount_cents, cadence, anchor_date, is_recurring, original_template_id)
VALUES (?, ?, 'once', ?, 0, ?)
ON CONFLICT (original_template_id, anchor_date) WHERE original_template_id IS NOT NULL DO NOTHING`

type InsertOccurrenceParams struct {
	Description string
	AmountCents int64
	Date        string
	TemplateID  int64
}

func (q *Queries) InsertOccurrence(ctx context.Context, p InsertOccurrenceParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertOccurrence,
		p.Description, p.AmountCents, p.Date, p.TemplateID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getOccurrenceByDate = `
SELECT ` + expenseColumns + ` FROM expenses
WHERE original_template_id = ? AND anchor_date = ?`

func (q *Queries) GetOccurrenceByDate(ctx context.Context, templateID int64, date string) (ExpenseRow, error) {
	return scanExpense(q.db.QueryRowContext(ctx, getOccurrenceByDate, templateID, date))
}

const listExpensesByDateRange = `
SELECT ` + expenseColumns + ` FROM expenses
WHERE anchor_date >= ? AND anchor_date <= ?
ORDER BY anchor_date, id`

func (q *Queries) ListExpensesByDateRange(ctx context.Context, from, to string) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesByDateRange, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func collectExpenses(rows *sql.Rows) ([]ExpenseRow, error) {
	var out []ExpenseRow
	for rows.Next() {
		r, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
