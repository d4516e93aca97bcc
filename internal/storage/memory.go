package storage

import (
	"context"
	"sync"

	"tracker/internal/core"
)

// MemoryStore is a volatile store for tests and throwaway runs. It honors
// the same wholesale-replace contract as the durable adapters.
type MemoryStore struct {
	mu      sync.Mutex
	records []core.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, records []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]core.Expense, len(records))
	copy(s.records, records)
	return nil
}
