// Package gsheets reads and appends business tables in a Google Sheets
// spreadsheet through the Sheets v4 API.
//
// Authentication uses a service-account JSON key. Requests go through a
// token-bucket RateLimiter that also backs off after 429 responses.
package gsheets
