package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.TabularSource    = (*Source)(nil)
	_ driven.ColumnMetaSource = (*Source)(nil)
)

// Source keeps the business tables in memory.
type Source struct {
	mu     sync.RWMutex
	tables map[domain.TableName]*domain.Table
}

// NewSource creates an empty in-memory source.
func NewSource() *Source {
	return &Source{tables: make(map[domain.TableName]*domain.Table)}
}

// SetTable replaces a table. The table is copied.
func (s *Source) SetTable(name domain.TableName, t *domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t.Clone()
}

// FetchProjects returns a copy of the project table.
func (s *Source) FetchProjects(_ context.Context) (*domain.Table, error) {
	return s.fetch(domain.TableProject)
}

// FetchInvoices returns a copy of the invoice table.
func (s *Source) FetchInvoices(_ context.Context) (*domain.Table, error) {
	return s.fetch(domain.TableInvoice)
}

// FetchColumnMeta returns the glossary table, or domain.ErrNotFound.
func (s *Source) FetchColumnMeta(_ context.Context) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[domain.TableColumnMeta]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t.Clone(), nil
}

// AppendRow appends a row, creating the table if needed.
func (s *Source) AppendRow(_ context.Context, table domain.TableName, row domain.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[table]
	if !ok {
		t = &domain.Table{}
		s.tables[table] = t
	}
	t.Append(row)
	return nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "memory"
}

// Close is a no-op.
func (s *Source) Close() error {
	return nil
}

func (s *Source) fetch(name domain.TableName) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, domain.ErrSourceUnavailable)
	}
	return t.Clone(), nil
}
