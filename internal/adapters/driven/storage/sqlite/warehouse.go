package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// Ensure Warehouse implements the interfaces.
var (
	_ driven.TabularSource    = (*Warehouse)(nil)
	_ driven.ColumnMetaSource = (*Warehouse)(nil)
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Warehouse reads and writes the business tables.
// The Store owns the connection; Close is a no-op.
type Warehouse struct {
	store *Store
}

// TableFor returns the warehouse table holding a business table or sheet:
// "FINAL_" plus the upper-cased name with non-alphanumerics replaced by "_".
// The column metadata table keeps its own name.
func TableFor(name domain.TableName) string {
	if name == domain.TableColumnMeta {
		return string(domain.TableColumnMeta)
	}
	return "FINAL_" + strings.ToUpper(nonAlnum.ReplaceAllString(string(name), "_"))
}

// FetchProjects returns the FINAL_PROJECT table.
func (w *Warehouse) FetchProjects(ctx context.Context) (*domain.Table, error) {
	return w.fetch(ctx, TableFor(domain.TableProject))
}

// FetchInvoices returns the FINAL_INVOICE table.
func (w *Warehouse) FetchInvoices(ctx context.Context) (*domain.Table, error) {
	return w.fetch(ctx, TableFor(domain.TableInvoice))
}

// FetchColumnMeta returns the COLUMN_META table, or domain.ErrNotFound when
// it was never imported.
func (w *Warehouse) FetchColumnMeta(ctx context.Context) (*domain.Table, error) {
	table := TableFor(domain.TableColumnMeta)
	exists, err := w.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return w.fetch(ctx, table)
}

// AppendRow inserts a row. Columns the table lacks are added first.
func (w *Warehouse) AppendRow(ctx context.Context, name domain.TableName, row domain.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row: %w", domain.ErrInvalidInput)
	}
	table := TableFor(name)

	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := columnsOf(ctx, tx, table)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return fmt.Errorf("table %s: %w", table, domain.ErrNotFound)
	}

	names := make([]string, 0, len(row))
	for c := range row {
		names = append(names, c)
	}
	sort.Strings(names)

	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c] = true
	}
	for _, c := range names {
		if have[c] {
			continue
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(table), quoteIdent(c))); err != nil {
			return fmt.Errorf("adding column %q to %s: %w", c, table, err)
		}
	}

	quoted := make([]string, len(names))
	args := make([]any, len(names))
	for i, c := range names {
		quoted[i] = quoteIdent(c)
		args[i] = toSQL(row[c])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), placeholders(len(names)))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReplaceTable drops the table for name and recreates it from t.
// Used when importing a workbook.
func (w *Warehouse) ReplaceTable(ctx context.Context, name domain.TableName, t *domain.Table) error {
	if t == nil || len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns: %w", name, domain.ErrInvalidInput)
	}
	table := TableFor(name)

	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}

	cols := uniqueColumns(t.Columns)
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(quoted, ", "))); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders(len(cols))))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, r := range t.Rows {
		for i := range args {
			args[i] = nil
			if i < len(r) {
				args[i] = toSQL(r[i])
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Name identifies the source.
func (w *Warehouse) Name() string {
	return "sqlite:" + w.store.path
}

// Close is a no-op; close the Store instead.
func (w *Warehouse) Close() error {
	return nil
}

func (w *Warehouse) fetch(ctx context.Context, table string) (*domain.Table, error) {
	rows, err := w.store.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	t := &domain.Table{Columns: cols}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		for i, c := range cells {
			cells[i] = fromSQL(c)
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return t, nil
}

func (w *Warehouse) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := w.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

func columnsOf(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// toSQL converts a cell to a driver value. Dates at midnight UTC are
// written as YYYY-MM-DD, other times as RFC3339.
func toSQL(v any) any {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil
		}
		u := x.UTC()
		if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
			return u.Format(time.DateOnly)
		}
		return u.Format(time.RFC3339)
	case int:
		return int64(x)
	default:
		return v
	}
}

// fromSQL converts a scanned value to a cell.
func fromSQL(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	default:
		return v
	}
}

// uniqueColumns suffixes repeated or blank header names so CREATE TABLE
// accepts them. Names compare case-insensitively, as SQLite does, and a
// suffix already taken by another header is skipped.
func uniqueColumns(cols []string) []string {
	taken := make(map[string]bool, len(cols))
	for _, c := range cols {
		taken[strings.ToLower(c)] = true
	}

	out := make([]string, len(cols))
	used := make(map[string]bool, len(cols))
	for i, c := range cols {
		name := c
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if used[strings.ToLower(name)] {
			base := name
			for n := 2; ; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
				key := strings.ToLower(name)
				if !used[key] && !taken[key] {
					break
				}
			}
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
