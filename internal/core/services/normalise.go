package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// dateLayouts are tried in order when parsing date cells.
// Ambiguous numeric dates are read month first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/06",
	"01-02-06",
	"2-Jan-2006",
	"2-Jan-06",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormaliseTable returns a cleaned copy of raw.
//
// Header names are trimmed and renamed, fully empty rows are dropped, date
// and numeric columns are coerced and bounded columns are clamped. Cells that
// fail to parse and blank cells become nil. In numeric columns a lone "-",
// the spreadsheet placeholder for nothing owed, reads as 0 rather than nil.
// Columns that end up with the same name are merged, keeping the first
// non-empty cell. Columns named by the schema but absent from raw are
// skipped. raw is never modified.
func NormaliseTable(raw *domain.Table, schema domain.TableSchema) *domain.Table {
	out := &domain.Table{}
	if raw == nil {
		return out
	}

	// target maps each raw column to its output column.
	target := make([]int, len(raw.Columns))
	for i, c := range raw.Columns {
		name := normaliseHeader(c, schema.Renames)
		idx := out.Index(name)
		if idx < 0 {
			idx = len(out.Columns)
			out.Columns = append(out.Columns, name)
		}
		target[i] = idx
	}

	dateIdx := columnSet(out, schema.DateColumns)
	numIdx := columnSet(out, schema.NumericColumns)
	bounds := make(map[int]domain.Bound, len(schema.Bounds))
	for name, b := range schema.Bounds {
		if i := out.Index(name); i >= 0 {
			bounds[i] = b
		}
	}

	out.Rows = make([][]any, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		if rowIsEmpty(r) {
			continue
		}
		row := make([]any, len(out.Columns))
		for i, v := range r {
			if i >= len(target) {
				break
			}
			dst := target[i]
			if row[dst] != nil {
				continue
			}
			switch {
			case dateIdx[dst]:
				row[dst] = coerceDate(v)
			case numIdx[dst]:
				n := coerceNumber(v)
				if b, ok := bounds[dst]; ok && n != nil {
					n = b.Clamp(n.(float64))
				}
				row[dst] = n
			case domain.IsEmptyCell(v):
			default:
				row[dst] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func normaliseHeader(name string, renames map[string]string) string {
	if to, ok := renames[name]; ok {
		return to
	}
	trimmed := strings.TrimSpace(name)
	if to, ok := renames[trimmed]; ok {
		return to
	}
	return trimmed
}

func columnSet(t *domain.Table, names []string) map[int]bool {
	set := make(map[int]bool, len(names))
	for _, n := range names {
		if i := t.Index(n); i >= 0 {
			set[i] = true
		}
	}
	return set
}

func rowIsEmpty(r []any) bool {
	for _, v := range r {
		if !domain.IsEmptyCell(v) {
			return false
		}
	}
	return true
}

// coerceDate returns a time.Time or nil.
func coerceDate(v any) any {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x
	case string:
		if t, ok := ParseDate(x); ok {
			return t
		}
	}
	return nil
}

// ParseDate parses s with the accepted date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceNumber returns a float64 or nil.
func coerceNumber(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		return coerceNumber(float64(x))
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case string:
		if f, ok := ParseNumber(x); ok {
			return f
		}
	}
	return nil
}

// ParseNumber parses a spreadsheet number. Thousands separators and
// surrounding spaces are ignored and a lone dash reads as zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if s == "-" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
