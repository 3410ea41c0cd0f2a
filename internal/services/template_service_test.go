package services

import (
	"context"
	"errors"
	"testing"

	"agridom/internal/core"
	"agridom/internal/storage"
)

func TestTemplateService_CreateValidates(t *testing.T) {
	svc := NewTemplateService(newTestStorage(t), nil)

	_, err := svc.CreateTemplate(context.Background(), core.ExpenseTemplate{
		Description: "",
		Amount:      core.Money{Cents: 1000},
		Cadence:     core.Monthly,
		AnchorDate:  core.NewDate(2025, 1, 1),
		IsRecurring: true,
	})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	_, err = svc.CreateTemplate(context.Background(), core.ExpenseTemplate{
		Description: "seed order",
		Amount:      core.Money{Cents: -5},
		Cadence:     core.Once,
		AnchorDate:  core.NewDate(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTemplateService_CreateWithoutBrokerSucceeds(t *testing.T) {
	svc := NewTemplateService(newTestStorage(t), nil)

	created, err := svc.CreateTemplate(context.Background(), core.ExpenseTemplate{
		Description: "seed order",
		Amount:      core.Money{Cents: 32000},
		Cadence:     core.Yearly,
		AnchorDate:  core.NewDate(2025, 4, 1),
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
}

func TestTemplateService_UpdateRoundTrip(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, core.ExpenseTemplate{
		Description: "seed order",
		Amount:      core.Money{Cents: 32000},
		Cadence:     core.Yearly,
		AnchorDate:  core.NewDate(2025, 4, 1),
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	created.EndDate = core.NewDate(2027, 4, 1)
	updated, err := svc.UpdateTemplate(ctx, created)
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if updated.EndDate.String() != "2027-04-01" {
		t.Errorf("end date = %s", updated.EndDate)
	}
}

func TestTemplateService_UpdateRejectsEndBeforeAnchor(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, core.ExpenseTemplate{
		Description: "seed order",
		Amount:      core.Money{Cents: 32000},
		Cadence:     core.Yearly,
		AnchorDate:  core.NewDate(2025, 4, 1),
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	created.EndDate = core.NewDate(2025, 3, 1)
	if _, err := svc.UpdateTemplate(ctx, created); !errors.Is(err, core.ErrEndBeforeAnchor) {
		t.Fatalf("expected ErrEndBeforeAnchor, got %v", err)
	}
}

func TestTemplateService_DeleteNotFound(t *testing.T) {
	svc := NewTemplateService(newTestStorage(t), nil)

	if err := svc.DeleteTemplate(context.Background(), 404); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
