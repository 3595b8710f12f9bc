// Package domain defines the core business entities for pidash.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table: A raw or normalised whole-table snapshot
//   - ProjectRecord / InvoiceRecord: Typed business rows
//   - JoinedRecord: An invoice enriched with its matching project
//   - CorpusDocument: A text snippet used as language-model context
//   - Snapshot: One consistent load of all business tables
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
