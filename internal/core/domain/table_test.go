package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Value(t *testing.T) {
	tbl := &Table{
		Columns: []string{"A", "B"},
		Rows:    [][]any{{"x", 1.5}, {"y"}},
	}

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "x", tbl.Value(0, "A"))
	assert.Equal(t, 1.5, tbl.Value(0, "B"))
	assert.Nil(t, tbl.Value(1, "B"), "short row reads as nil")
	assert.Nil(t, tbl.Value(0, "C"))
	assert.Nil(t, tbl.Value(5, "A"))
	assert.True(t, tbl.HasColumn("B"))
	assert.False(t, tbl.HasColumn("b"))
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, -1, tbl.Index("A"))
	assert.Nil(t, tbl.Value(0, "A"))
	require.NotNil(t, tbl.Clone())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := &Table{
		Columns: []string{"A"},
		Rows:    [][]any{{"x"}},
	}
	c := tbl.Clone()
	c.Columns[0] = "Z"
	c.Rows[0][0] = "changed"

	assert.Equal(t, "A", tbl.Columns[0])
	assert.Equal(t, "x", tbl.Rows[0][0])
}

func TestTable_Append(t *testing.T) {
	tbl := &Table{
		Columns: []string{"A"},
		Rows:    [][]any{{"x"}},
	}
	tbl.Append(Row{"A": "y", "C": 3.0, "B": true})

	assert.Equal(t, []string{"A", "B", "C"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{"y", true, 3.0}, tbl.Rows[1])
	assert.Nil(t, tbl.Value(0, "C"))
}

func TestIsEmptyCell(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank string", "  \t", true},
		{"NaN", math.NaN(), true},
		{"text", "a", false},
		{"zero", 0.0, false},
		{"int", int64(0), false},
		{"bool", false, false},
		{"time", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmptyCell(tt.v))
		})
	}
}

func TestBound_Clamp(t *testing.T) {
	b := Bound{Min: 0, Max: 1}
	assert.Equal(t, 0.0, b.Clamp(-0.5))
	assert.Equal(t, 1.0, b.Clamp(1.7))
	assert.Equal(t, 0.42, b.Clamp(0.42))
}

func TestSchemas(t *testing.T) {
	p := ProjectSchema()
	assert.Equal(t, ColQty, p.Renames["Q'ty"])
	assert.Contains(t, p.NumericColumns, ColProgress)
	assert.Contains(t, p.DateColumns, ColPODate)
	assert.Equal(t, Bound{Min: 0, Max: 1}, p.Bounds[ColProgress])

	i := InvoiceSchema()
	assert.Equal(t, ColCurrency, i.Renames["Currency unit "])
	assert.Contains(t, i.NumericColumns, ColInvoiceValue)
	assert.Contains(t, i.DateColumns, ColIssuedDate)
}
