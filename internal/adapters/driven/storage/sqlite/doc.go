// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database connection serves:
//
//   - Warehouse: the FINAL_PROJECT, FINAL_INVOICE and COLUMN_META business
//     tables (driven.TabularSource, driven.ColumnMetaSource)
//   - SnapshotCache: decoded snapshots persisted between runs
//   - HistoryStore: answered questions
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Business tables are untyped so imported cells keep their storage class;
// ReplaceTable recreates them with the columns of an imported sheet.
//
// # Data Location
//
// By default, the database is stored at ~/.pidash/data/pidash.db
package sqlite
