package sheets

import (
	"context"

	"agridom/internal/core"
)

// RecordWriter appends one expense record to the export sheet and returns
// a reference to the written row.
type RecordWriter interface {
	Append(ctx context.Context, t core.ExpenseTemplate) (rowRef string, err error)
}
