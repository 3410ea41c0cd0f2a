package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"agridom/internal/core"
	"agridom/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := storage.RunMigrations(dbPath); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := storage.NewRepository(dbPath, logger)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *storage.Repository, tmpl core.ExpenseTemplate) core.ExpenseTemplate {
	t.Helper()
	created, err := repo.CreateTemplate(context.Background(), tmpl)
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	return created
}

func TestMaterializer_WeeklyMonth(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)
	ctx := context.Background()

	tmpl := mustCreate(t, repo, core.ExpenseTemplate{
		Description: "field hand wages",
		Amount:      core.Money{Cents: 50000},
		Cadence:     core.Weekly,
		AnchorDate:  core.NewDate(2025, 1, 1), // wednesday
		IsRecurring: true,
	})

	result, err := mat.MaterializePeriod(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("MaterializePeriod: %v", err)
	}
	if result.Created != 5 {
		t.Errorf("created = %d, want 5", result.Created)
	}
	if result.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", result.Skipped)
	}

	dates, err := repo.ListOccurrenceDates(ctx, tmpl.ID, 2025, 1)
	if err != nil {
		t.Fatalf("ListOccurrenceDates: %v", err)
	}
	want := []string{"2025-01-01", "2025-01-08", "2025-01-15", "2025-01-22", "2025-01-29"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i, d := range dates {
		if d.String() != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestMaterializer_SecondRunIsNoOp(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)
	ctx := context.Background()

	mustCreate(t, repo, core.ExpenseTemplate{
		Description: "field hand wages",
		Amount:      core.Money{Cents: 50000},
		Cadence:     core.Weekly,
		AnchorDate:  core.NewDate(2025, 1, 1),
		IsRecurring: true,
	})

	first, err := mat.MaterializePeriod(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Created != 5 {
		t.Fatalf("first run created = %d, want 5", first.Created)
	}

	second, err := mat.MaterializePeriod(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 {
		t.Errorf("second run created = %d, want 0", second.Created)
	}
}

func TestMaterializer_MonthlyClampsToMonthEnd(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)
	ctx := context.Background()

	tmpl := mustCreate(t, repo, core.ExpenseTemplate{
		Description: "equipment lease",
		Amount:      core.Money{Cents: 89900},
		Cadence:     core.Monthly,
		AnchorDate:  core.NewDate(2024, 1, 31),
		IsRecurring: true,
	})

	result, err := mat.MaterializePeriod(ctx, 2024, 2)
	if err != nil {
		t.Fatalf("MaterializePeriod: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}

	dates, err := repo.ListOccurrenceDates(ctx, tmpl.ID, 2024, 2)
	if err != nil {
		t.Fatalf("ListOccurrenceDates: %v", err)
	}
	if len(dates) != 1 || dates[0].String() != "2024-02-29" {
		t.Errorf("dates = %v, want [2024-02-29]", dates)
	}
}

func TestMaterializer_SkipsNonRecurringAndOnce(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)
	ctx := context.Background()

	mustCreate(t, repo, core.ExpenseTemplate{
		Description: "tractor repair",
		Amount:      core.Money{Cents: 250000},
		Cadence:     core.Once,
		AnchorDate:  core.NewDate(2025, 3, 10),
		IsRecurring: false,
	})
	mustCreate(t, repo, core.ExpenseTemplate{
		Description: "paused subscription",
		Amount:      core.Money{Cents: 1500},
		Cadence:     core.Monthly,
		AnchorDate:  core.NewDate(2025, 1, 1),
		IsRecurring: false,
	})

	result, err := mat.MaterializePeriod(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("MaterializePeriod: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("created = %d, want 0", result.Created)
	}
}

func TestMaterializer_PartialExistingFillsGaps(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)
	ctx := context.Background()

	tmpl := mustCreate(t, repo, core.ExpenseTemplate{
		Description: "field hand wages",
		Amount:      core.Money{Cents: 50000},
		Cadence:     core.Weekly,
		AnchorDate:  core.NewDate(2025, 1, 1),
		IsRecurring: true,
	})

	occ := core.Occurrence{
		Date:       core.NewDate(2025, 1, 15),
		Amount:     tmpl.Amount,
		TemplateID: tmpl.ID,
	}
	if _, err := repo.InsertOccurrence(ctx, tmpl, occ); err != nil {
		t.Fatalf("InsertOccurrence: %v", err)
	}

	result, err := mat.MaterializePeriod(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("MaterializePeriod: %v", err)
	}
	if result.Created != 4 {
		t.Errorf("created = %d, want 4", result.Created)
	}

	dates, err := repo.ListOccurrenceDates(ctx, tmpl.ID, 2025, 1)
	if err != nil {
		t.Fatalf("ListOccurrenceDates: %v", err)
	}
	if len(dates) != 5 {
		t.Errorf("total occurrences = %d, want 5", len(dates))
	}
}

func TestMaterializer_InvalidPeriod(t *testing.T) {
	repo := newTestStorage(t)
	mat := NewMaterializer(repo, nil)

	if _, err := mat.MaterializePeriod(context.Background(), 2025, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := mat.MaterializePeriod(context.Background(), 0, 5); !errors.Is(err, core.ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}
