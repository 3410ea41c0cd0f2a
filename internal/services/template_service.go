package services

import (
	"context"
	"fmt"
	"log/slog"

	"agridom/internal/amqp"
	"agridom/internal/core"
	"agridom/internal/storage"
)

// TemplateService orchestrates expense template operations across SQLite
// and AMQP.
type TemplateService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewTemplateService(storage *storage.Repository, amqpClient *amqp.Client) *TemplateService {
	return &TemplateService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTemplate validates and saves a template, then publishes an export
// message. Publish failures are logged, not returned; the record is already
// saved locally.
func (s *TemplateService) CreateTemplate(ctx context.Context, t core.ExpenseTemplate) (core.ExpenseTemplate, error) {
	if err := t.Validate(); err != nil {
		return core.ExpenseTemplate{}, err
	}

	created, err := s.storage.CreateTemplate(ctx, t)
	if err != nil {
		return core.ExpenseTemplate{}, fmt.Errorf("save template: %w", err)
	}

	if err := s.publishExport(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", created.ID, "error", err)
	}

	return created, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id int64) (core.ExpenseTemplate, error) {
	return s.storage.GetTemplate(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]core.ExpenseTemplate, error) {
	return s.storage.ListTemplates(ctx)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, t core.ExpenseTemplate) (core.ExpenseTemplate, error) {
	if err := t.Validate(); err != nil {
		return core.ExpenseTemplate{}, err
	}

	if err := s.storage.UpdateTemplate(ctx, t); err != nil {
		return core.ExpenseTemplate{}, err
	}

	updated, err := s.storage.GetTemplate(ctx, t.ID)
	if err != nil {
		return core.ExpenseTemplate{}, err
	}

	if err := s.publishExport(ctx, updated.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", updated.ID, "error", err)
	}

	return updated, nil
}

// DeleteTemplate removes a template together with its materialized
// occurrences.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id int64) error {
	return s.storage.DeleteTemplate(ctx, id)
}

func (s *TemplateService) publishExport(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping export message")
		return nil
	}
	return s.amqpClient.PublishExport(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *TemplateService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close template service: %v", errs)
	}

	return nil
}
