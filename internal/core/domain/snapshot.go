package domain

import "time"

// ColumnMeta describes one business field for the prompt glossary.
type ColumnMeta struct {
	Table       string `json:"table"`
	Field       string `json:"field"`
	Description string `json:"description"`
}

// Snapshot is the cleaned and decoded state of both business tables.
type Snapshot struct {
	Projects   []ProjectRecord
	Invoices   []InvoiceRecord
	ColumnMeta []ColumnMeta

	// Source names the tabular source the snapshot came from.
	Source string

	LoadedAt time.Time
}
