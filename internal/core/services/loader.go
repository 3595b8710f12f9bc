package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Loader fetches, cleans and decodes both business tables.
//
// Snapshots are reused for the TTL in memory and, when a SnapshotCache is
// set, across runs. Returned snapshots are shared and must not be modified.
type Loader struct {
	source driven.TabularSource
	cache  driven.SnapshotCache
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snap     *domain.Snapshot
	loadedAt time.Time
}

// NewLoader creates a loader. cache may be nil. A non-positive ttl
// disables in-memory reuse.
func NewLoader(source driven.TabularSource, cache driven.SnapshotCache, ttl time.Duration) *Loader {
	return &Loader{
		source: source,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Load returns the current snapshot.
// Returns domain.ErrSourceUnavailable when the project table is unreachable or empty.
func (l *Loader) Load(ctx context.Context) (*domain.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snap != nil && l.ttl > 0 && l.now().Sub(l.loadedAt) < l.ttl {
		return l.snap, nil
	}

	if l.cache != nil && l.ttl > 0 {
		snap, err := l.cache.Get(ctx, l.cacheKey(), l.ttl)
		switch {
		case err == nil:
			logger.Debug("loader: snapshot cache hit for %s", l.cacheKey())
			l.snap, l.loadedAt = snap, l.now()
			return snap, nil
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("loader: snapshot cache read failed: %v", err)
		}
	}

	snap, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Put(ctx, l.cacheKey(), snap); err != nil {
			logger.Warn("loader: snapshot cache write failed: %v", err)
		}
	}
	l.snap, l.loadedAt = snap, l.now()
	return snap, nil
}

// Invalidate drops the in-memory and persisted snapshots.
func (l *Loader) Invalidate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.snap = nil
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate snapshot cache: %w", err)
		}
	}
	return nil
}

func (l *Loader) cacheKey() string {
	return l.source.Name()
}

func (l *Loader) fetch(ctx context.Context) (*domain.Snapshot, error) {
	logger.Section("Load " + l.source.Name())

	rawProjects, err := l.source.FetchProjects(ctx)
	if err != nil {
		return nil, sourceError(domain.TableProject, err)
	}
	projects := DecodeProjects(NormaliseTable(rawProjects, domain.ProjectSchema()))
	if len(projects) == 0 {
		return nil, fmt.Errorf("%s returned no %s rows: %w", l.source.Name(), domain.TableProject, domain.ErrSourceUnavailable)
	}

	rawInvoices, err := l.source.FetchInvoices(ctx)
	if err != nil {
		return nil, sourceError(domain.TableInvoice, err)
	}
	invoices := DecodeInvoices(NormaliseTable(rawInvoices, domain.InvoiceSchema()))

	var meta []domain.ColumnMeta
	if ms, ok := l.source.(driven.ColumnMetaSource); ok {
		raw, err := ms.FetchColumnMeta(ctx)
		switch {
		case err == nil:
			meta = DecodeColumnMeta(NormaliseTable(raw, domain.TableSchema{}))
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("loader: no column metadata in %s", l.source.Name())
		default:
			logger.Warn("loader: column metadata unavailable: %v", err)
		}
	}

	logger.Debug("loader: %d projects, %d invoices, %d glossary entries", len(projects), len(invoices), len(meta))
	return &domain.Snapshot{
		Projects:   projects,
		Invoices:   invoices,
		ColumnMeta: meta,
		Source:     l.source.Name(),
		LoadedAt:   l.now(),
	}, nil
}

func sourceError(table domain.TableName, err error) error {
	if errors.Is(err, domain.ErrSourceUnavailable) {
		return fmt.Errorf("fetch %s: %w", table, err)
	}
	return fmt.Errorf("fetch %s: %w: %v", table, domain.ErrSourceUnavailable, err)
}
