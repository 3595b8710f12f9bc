package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

// ==================== Store Creation Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, dbFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Warehouse().AppendRow(ctx, domain.TableProject, domain.Row{domain.ColProject: "Alpha"}))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	table, err := store.Warehouse().FetchProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Sale order No."`, quoteIdent("Sale order No."))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

// ==================== Warehouse Tests ====================

func TestTableFor(t *testing.T) {
	assert.Equal(t, "FINAL_PROJECT", TableFor(domain.TableProject))
	assert.Equal(t, "FINAL_INVOICE", TableFor(domain.TableInvoice))
	assert.Equal(t, "FINAL_Q1_SALES", TableFor("q1 sales"))
	assert.Equal(t, "COLUMN_META", TableFor(domain.TableColumnMeta))
}

func TestWarehouse_EmptyTablesAfterMigration(t *testing.T) {
	w := setupTestStore(t).Warehouse()

	table, err := w.FetchProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.True(t, table.HasColumn(domain.ColOrderNumber))

	table, err = w.FetchInvoices(context.Background())
	require.NoError(t, err)
	assert.True(t, table.HasColumn(domain.ColSaleOrder))
}

func TestWarehouse_AppendRow(t *testing.T) {
	ctx := context.Background()
	w := setupTestStore(t).Warehouse()

	err := w.AppendRow(ctx, domain.TableInvoice, domain.Row{
		domain.ColSaleOrder:     "500",
		domain.ColInvoiceValue:  1250.5,
		domain.ColYear:          int64(2025),
		domain.ColPlanDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		domain.ColPaymentStatus: nil,
		"Remark":                "new column",
	})
	require.NoError(t, err)

	table, err := w.FetchInvoices(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "500", table.Value(0, domain.ColSaleOrder))
	assert.Equal(t, 1250.5, table.Value(0, domain.ColInvoiceValue))
	assert.Equal(t, int64(2025), table.Value(0, domain.ColYear))
	assert.Equal(t, "2025-03-01", table.Value(0, domain.ColPlanDate))
	assert.Nil(t, table.Value(0, domain.ColPaymentStatus))
	assert.Equal(t, "new column", table.Value(0, "Remark"))
}

func TestWarehouse_AppendRowErrors(t *testing.T) {
	w := setupTestStore(t).Warehouse()

	err := w.AppendRow(context.Background(), domain.TableProject, domain.Row{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = w.AppendRow(context.Background(), "Missing", domain.Row{"a": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarehouse_ReplaceTable(t *testing.T) {
	ctx := context.Background()
	w := setupTestStore(t).Warehouse()

	err := w.ReplaceTable(ctx, domain.TableProject, &domain.Table{
		Columns: []string{"Project", "Q'ty", "Order number", "", "Project"},
		Rows: [][]any{
			{"Alpha", 2.0, 500.0, "x", "dup"},
			{"Beta", "3", nil},
		},
	})
	require.NoError(t, err)

	table, err := w.FetchProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Project", "Q'ty", "Order number", "column_4", "Project_2"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 500.0, table.Value(0, "Order number"))
	assert.Equal(t, "3", table.Value(1, "Q'ty"))
	assert.Nil(t, table.Value(1, "Order number"))
}

func TestWarehouse_ReplaceTableRejectsEmpty(t *testing.T) {
	err := setupTestStore(t).Warehouse().ReplaceTable(context.Background(), domain.TableProject, &domain.Table{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouse_ColumnMeta(t *testing.T) {
	ctx := context.Background()
	w := setupTestStore(t).Warehouse()

	_, err := w.FetchColumnMeta(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, w.ReplaceTable(ctx, domain.TableColumnMeta, &domain.Table{
		Columns: []string{domain.ColMetaTable, domain.ColMetaField, domain.ColMetaDescription},
		Rows:    [][]any{{"Project", "Balance", "Remaining value"}},
	}))

	table, err := w.FetchColumnMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Balance", table.Value(0, domain.ColMetaField))
}

func TestUniqueColumns(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"case-insensitive repeats", []string{"a", "A", "b", " ", "a"}, []string{"a", "A_2", "b", "column_4", "a_3"}},
		{"suffix taken by a later header", []string{"A", "A", "A_2"}, []string{"A", "A_3", "A_2"}},
		{"suffix taken by an earlier header", []string{"A_2", "A", "A"}, []string{"A_2", "A", "A_3"}},
		{"blank name taken", []string{"column_2", ""}, []string{"column_2", "column_2_2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueColumns(tt.in))
		})
	}
}

func TestWarehouse_ReplaceTableSuffixCollision(t *testing.T) {
	ctx := context.Background()
	w := setupTestStore(t).Warehouse()

	err := w.ReplaceTable(ctx, domain.TableInvoice, &domain.Table{
		Columns: []string{"A", "A", "A_2"},
		Rows:    [][]any{{"first", "second", "third"}},
	})
	require.NoError(t, err)

	table, err := w.FetchInvoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A_3", "A_2"}, table.Columns)
	assert.Equal(t, "second", table.Value(0, "A_3"))
	assert.Equal(t, "third", table.Value(0, "A_2"))
}

// ==================== Snapshot Cache Tests ====================

func TestSnapshotCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).SnapshotCache()

	value := 1000.0
	snap := &domain.Snapshot{
		Projects: []domain.ProjectRecord{{Project: "Alpha", OrderKey: "500", Value: &value}},
		Invoices: []domain.InvoiceRecord{{OrderKey: "500"}},
		Source:   "sqlite",
	}
	require.NoError(t, cache.Put(ctx, "k", snap))

	got, err := cache.Get(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Projects[0].Project)
	assert.Equal(t, 1000.0, *got.Projects[0].Value)
	assert.Equal(t, "500", got.Invoices[0].OrderKey)

	_, err = cache.Get(ctx, "other", time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).SnapshotCache()
	require.NoError(t, cache.Put(ctx, "k", &domain.Snapshot{}))

	_, err := cache.Get(ctx, "k", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).SnapshotCache()
	require.NoError(t, cache.Put(ctx, "a", &domain.Snapshot{}))
	require.NoError(t, cache.Put(ctx, "b", &domain.Snapshot{}))

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx, "a", time.Hour)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== History Store Tests ====================

func TestHistoryStore_SaveListGet(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, history.Save(ctx, domain.AskRecord{
			ID:        id,
			Question:  "q " + id,
			Answer:    "answer",
			Domain:    domain.CorpusDomainInvoice,
			Context:   []domain.CorpusDocument{{Source: domain.CorpusSourceInvoice, Text: "Order: 500"}},
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recs, err := history.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)

	all, err := history.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := history.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.CorpusDomainInvoice, got.Domain)
	assert.Equal(t, "Order: 500", got.Context[0].Text)
	assert.True(t, base.Equal(got.CreatedAt))

	_, err = history.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()

	require.NoError(t, history.Save(ctx, domain.AskRecord{ID: "a", Question: "q", Answer: "first"}))
	require.NoError(t, history.Save(ctx, domain.AskRecord{ID: "a", Question: "q", Answer: "second"}))

	got, err := history.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Answer)
}
