// Package excel reads and appends business tables in a local .xlsx workbook.
//
// Sheets are read with formatted cell values, so numbers may carry thousands
// separators and dates follow the cell's number format; the normaliser
// parses both.
package excel
