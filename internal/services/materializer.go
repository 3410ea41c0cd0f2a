package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"agridom/internal/amqp"
	"agridom/internal/billing"
	"agridom/internal/core"
	"agridom/internal/storage"
)

const materializeConcurrency = 4

// MaterializeResult summarizes one materialization run over a period.
type MaterializeResult struct {
	Templates int `json:"templates"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

// Materializer turns recurring templates into concrete occurrence rows for
// a given month. Runs are idempotent: occurrences already present, whether
// from an earlier run or a concurrent one, are skipped.
type Materializer struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewMaterializer(storage *storage.Repository, amqpClient *amqp.Client) *Materializer {
	return &Materializer{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// MaterializePeriod expands every recurring template into (year, month) and
// persists the occurrences that don't exist yet. Templates fan out across a
// bounded worker group; a single failing template aborts the run.
func (m *Materializer) MaterializePeriod(ctx context.Context, year, month int) (MaterializeResult, error) {
	if err := core.ValidatePeriod(year, month); err != nil {
		return MaterializeResult{}, err
	}

	templates, err := m.storage.ListRecurringTemplates(ctx)
	if err != nil {
		return MaterializeResult{}, fmt.Errorf("list recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Materializing period",
		"year", year,
		"month", month,
		"templates", len(templates))

	var created, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(materializeConcurrency)

	for _, tmpl := range templates {
		g.Go(func() error {
			c, s, err := m.materializeTemplate(gctx, tmpl, year, month)
			if err != nil {
				return fmt.Errorf("template %d: %w", tmpl.ID, err)
			}
			created.Add(int64(c))
			skipped.Add(int64(s))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return MaterializeResult{}, err
	}

	result := MaterializeResult{
		Templates: len(templates),
		Created:   int(created.Load()),
		Skipped:   int(skipped.Load()),
	}

	slog.InfoContext(ctx, "Materialization complete",
		"year", year,
		"month", month,
		"created", result.Created,
		"skipped", result.Skipped)

	return result, nil
}

func (m *Materializer) materializeTemplate(ctx context.Context, tmpl core.ExpenseTemplate, year, month int) (created, skipped int, err error) {
	existing, err := m.storage.ListOccurrenceDates(ctx, tmpl.ID, year, month)
	if err != nil {
		return 0, 0, fmt.Errorf("list existing occurrences: %w", err)
	}

	occurrences, err := billing.ExpandForPeriod(tmpl, year, month, existing)
	if err != nil {
		return 0, 0, fmt.Errorf("expand: %w", err)
	}

	for _, occ := range occurrences {
		inserted, err := m.storage.InsertOccurrence(ctx, tmpl, occ)
		if err != nil {
			return created, skipped, fmt.Errorf("insert occurrence %s: %w", occ.Date, err)
		}
		if !inserted {
			skipped++
			continue
		}
		created++

		if err := m.publishOccurrence(ctx, tmpl.ID, occ.Date); err != nil {
			slog.ErrorContext(ctx, "Failed to publish occurrence export",
				"template_id", tmpl.ID,
				"date", occ.Date.String(),
				"error", err)
		}
	}

	return created, skipped, nil
}

func (m *Materializer) publishOccurrence(ctx context.Context, templateID int64, date core.Date) error {
	if m.amqpClient == nil {
		return nil
	}
	occ, err := m.storage.GetOccurrenceByDate(ctx, templateID, date)
	if err != nil {
		return fmt.Errorf("load occurrence row: %w", err)
	}
	return m.amqpClient.PublishExport(ctx, occ.ID)
}
