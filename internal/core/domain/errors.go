package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist,
	// or that a filter matched no records.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source backend or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrSourceUnavailable indicates the tabular or document source cannot be
	// reached or returned no rows.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSchemaMismatch indicates a required column is absent.
	// Normalisation skips absent columns; this error is only raised where a
	// caller cannot continue without the column.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrModelUnavailable indicates the language model client or its
	// credentials are not configured.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrAppendFailure indicates an add-record write to the store of record failed.
	ErrAppendFailure = errors.New("append failed")
)
