package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agridom/internal/amqp"
	"agridom/internal/log"
	"agridom/internal/sheets"
	"agridom/internal/storage"
)

// ExportWorker pushes expense rows from SQLite to the export sheet as
// messages arrive.
type ExportWorker struct {
	storage *storage.Repository
	writer  sheets.RecordWriter
}

func NewExportWorker(storage *storage.Repository, writer sheets.RecordWriter) *ExportWorker {
	return &ExportWorker{
		storage: storage,
		writer:  writer,
	}
}

// HandleExportMessage loads the record named by the message and appends it
// to the sheet. The row is fetched fresh so edits between publish and
// consume are exported, not the stale snapshot.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", log.FieldTemplateID, msg.ID)

	record, err := w.storage.GetTemplate(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume; requeueing would loop forever.
		slog.WarnContext(ctx, "Record gone before export, dropping message", log.FieldTemplateID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}

	ref, err := w.writer.Append(ctx, record)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Successfully exported record",
		log.FieldTemplateID, msg.ID,
		log.FieldSheetsRef, ref,
		"description", record.Description,
		log.FieldAmount, record.Amount.Cents)

	return nil
}
