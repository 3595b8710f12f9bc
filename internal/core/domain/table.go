package domain

import (
	"math"
	"sort"
	"strings"
)

// TableName identifies a business table in the store of record.
type TableName string

// Business tables.
const (
	// TableProject holds project rows.
	TableProject TableName = "Project"

	// TableInvoice holds invoice rows.
	TableInvoice TableName = "Invoice"

	// TableColumnMeta holds the optional field glossary.
	TableColumnMeta TableName = "COLUMN_META"
)

// String returns the string representation.
func (n TableName) String() string {
	return string(n)
}

// Row is a single record keyed by column name. It is the unit of append.
type Row map[string]any

// Table is a whole-table snapshot.
//
// Cells are one of nil, string, int64, float64, bool or time.Time.
// A nil cell is a missing value. Rows may be shorter than Columns;
// missing trailing cells read as nil.
type Table struct {
	// Columns are the header names in source order.
	Columns []string

	// Rows are the data rows in source order.
	Rows [][]any
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.Index(name) >= 0
}

// Value returns the cell at row for the named column.
// Unknown columns and short rows yield nil.
func (t *Table) Value(row int, column string) any {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return nil
	}
	idx := t.Index(column)
	if idx < 0 || idx >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][idx]
}

// Clone returns a deep copy of the header and row slices.
// Cell values are immutable and shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]any(nil), r...)
	}
	return out
}

// Append adds row to the table. Row keys that are not yet columns are
// appended to the header in sorted order; existing rows read them as nil.
func (t *Table) Append(row Row) {
	var added []string
	for name := range row {
		if !t.HasColumn(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	t.Columns = append(t.Columns, added...)

	cells := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = row[c]
	}
	t.Rows = append(t.Rows, cells)
}

// IsEmptyCell reports whether a cell counts as missing.
// Blank strings and NaN are missing, as spreadsheets export empty cells that way.
func IsEmptyCell(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	default:
		return false
	}
}
