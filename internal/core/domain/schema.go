package domain

// Bound is an inclusive numeric range a field is clamped into.
type Bound struct {
	Min float64
	Max float64
}

// Clamp returns v limited to the bound.
func (b Bound) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// TableSchema describes how a raw table is cleaned.
// Columns named here but absent from the raw table are skipped.
type TableSchema struct {
	// Renames maps legacy header names to canonical names.
	Renames map[string]string

	// DateColumns are parsed into time.Time; unparseable cells become nil.
	DateColumns []string

	// NumericColumns are coerced to float64; non-numeric cells become nil.
	NumericColumns []string

	// Bounds clamps numeric columns after coercion.
	Bounds map[string]Bound
}

// ProjectSchema returns the cleaning schema for the project table.
func ProjectSchema() TableSchema {
	return TableSchema{
		Renames: map[string]string{
			"Q'ty": ColQty,
		},
		DateColumns: []string{
			ColPODate,
			"Original Delivery Date",
			ColEstimatedShip,
			ColActualShip,
			"Waranty end",
		},
		NumericColumns: []string{
			ColYear,
			ColOrderNumber,
			ColProjectValue,
			ColBalance,
			ColProgress,
			"Number of Status",
			"Max LD",
			"Max LD Amount",
			"Extra cost",
			"Change order amount",
			"Storage fee amount",
			"Days late",
			ColQty,
		},
		Bounds: map[string]Bound{
			ColProgress: {Min: 0, Max: 1},
		},
	}
}

// InvoiceSchema returns the cleaning schema for the invoice table.
func InvoiceSchema() TableSchema {
	return TableSchema{
		Renames: map[string]string{
			"Currency unit ": ColCurrency,
		},
		DateColumns: []string{
			ColPlanDate,
			ColIssuedDate,
			ColDueDate,
			"Plan payment date",
			ColExpectedPayment,
			ColActualPayment,
		},
		NumericColumns: []string{
			ColYear,
			"SEQ",
			"Total amount",
			"Percentage of amount",
			ColInvoiceValue,
			"Plan Delayed",
			"Actual Delayed",
			"Claim Plan 2025",
		},
	}
}
