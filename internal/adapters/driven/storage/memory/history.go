package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.AskRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Save records an exchange. A record with an existing ID replaces it.
func (s *HistoryStore) Save(_ context.Context, rec domain.AskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return nil
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.AskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AskRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.records[i])
	}
	return out, nil
}

// Get returns a record by ID.
func (s *HistoryStore) Get(_ context.Context, id string) (*domain.AskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}
