// Package source selects and composes tabular sources.
//
// Open builds the configured backend. A Google Sheets backend with a local
// workbook configured falls back to the workbook when the spreadsheet is
// unreachable or its project sheet is empty.
package source
