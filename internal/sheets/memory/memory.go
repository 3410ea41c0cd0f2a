package memory

import (
	"context"
	"fmt"
	"sync"

	"agridom/internal/core"
)

// Store is an in-memory RecordWriter used in tests and when no spreadsheet
// is configured.
type Store struct {
	mu    sync.Mutex
	items []core.ExpenseTemplate
}

func New() *Store {
	return &Store{}
}

// Append stores the record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.ExpenseTemplate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.ExpenseTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ExpenseTemplate, len(s.items))
	copy(out, s.items)
	return out
}
