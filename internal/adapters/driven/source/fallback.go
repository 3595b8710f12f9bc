package source

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure Fallback implements the interfaces.
var (
	_ driven.TabularSource    = (*Fallback)(nil)
	_ driven.ColumnMetaSource = (*Fallback)(nil)
)

// Fallback reads from a primary source and switches to a secondary one when
// the primary fails or has no project rows. The choice is made on each
// FetchProjects and reused for the rest of the load and for appends, so both
// tables always come from the same place.
type Fallback struct {
	primary   driven.TabularSource
	secondary driven.TabularSource

	mu     sync.Mutex
	active driven.TabularSource
}

// NewFallback creates a fallback composite.
func NewFallback(primary, secondary driven.TabularSource) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, active: primary}
}

// FetchProjects reads projects from the primary, or the secondary when the
// primary fails or is empty.
func (f *Fallback) FetchProjects(ctx context.Context) (*domain.Table, error) {
	t, err := f.primary.FetchProjects(ctx)
	if err == nil && t.Len() > 0 {
		f.setActive(f.primary)
		return t, nil
	}
	if err != nil {
		logger.Warn("%s unavailable, falling back to %s: %v", f.primary.Name(), f.secondary.Name(), err)
	} else {
		logger.Warn("%s returned no project rows, falling back to %s", f.primary.Name(), f.secondary.Name())
	}

	t2, err2 := f.secondary.FetchProjects(ctx)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	f.setActive(f.secondary)
	return t2, nil
}

// FetchInvoices reads invoices from the source chosen by FetchProjects.
func (f *Fallback) FetchInvoices(ctx context.Context) (*domain.Table, error) {
	return f.current().FetchInvoices(ctx)
}

// FetchColumnMeta reads the glossary from the active source when it has one.
func (f *Fallback) FetchColumnMeta(ctx context.Context) (*domain.Table, error) {
	ms, ok := f.current().(driven.ColumnMetaSource)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ms.FetchColumnMeta(ctx)
}

// AppendRow writes to the active source.
func (f *Fallback) AppendRow(ctx context.Context, table domain.TableName, row domain.Row) error {
	return f.current().AppendRow(ctx, table, row)
}

// Name returns the active source's name.
func (f *Fallback) Name() string {
	return f.current().Name()
}

// Close closes both sources.
func (f *Fallback) Close() error {
	return errors.Join(f.primary.Close(), f.secondary.Close())
}

func (f *Fallback) current() driven.TabularSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Fallback) setActive(s driven.TabularSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = s
}
