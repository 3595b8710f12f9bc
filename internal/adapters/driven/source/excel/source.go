package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.TabularSource    = (*Source)(nil)
	_ driven.ColumnMetaSource = (*Source)(nil)
)

// Config names the workbook and its sheets.
type Config struct {
	Path         string
	ProjectSheet string
	InvoiceSheet string
}

// Source reads business tables from an .xlsx workbook.
// The workbook is opened per call so edits made in a spreadsheet program are
// picked up on the next load.
type Source struct {
	cfg Config
	mu  sync.Mutex
}

// NewSource creates a workbook source. Empty sheet names default to
// "Project" and "Invoice".
func NewSource(cfg Config) *Source {
	if cfg.ProjectSheet == "" {
		cfg.ProjectSheet = string(domain.TableProject)
	}
	if cfg.InvoiceSheet == "" {
		cfg.InvoiceSheet = string(domain.TableInvoice)
	}
	return &Source{cfg: cfg}
}

// FetchProjects reads the project sheet, or the first sheet when the
// workbook has no sheet by that name.
func (s *Source) FetchProjects(_ context.Context) (*domain.Table, error) {
	return s.read(func(f *excelize.File) (string, bool) {
		if name, ok := findSheet(f, s.cfg.ProjectSheet); ok {
			return name, true
		}
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", false
		}
		logger.Debug("excel: no %q sheet, using %q", s.cfg.ProjectSheet, sheets[0])
		return sheets[0], true
	})
}

// FetchInvoices reads the invoice sheet. A workbook without one yields an
// empty table.
func (s *Source) FetchInvoices(_ context.Context) (*domain.Table, error) {
	return s.read(func(f *excelize.File) (string, bool) {
		return findSheet(f, s.cfg.InvoiceSheet)
	})
}

// FetchColumnMeta reads the COLUMN_META sheet, or returns domain.ErrNotFound.
func (s *Source) FetchColumnMeta(_ context.Context) (*domain.Table, error) {
	found := false
	t, err := s.read(func(f *excelize.File) (string, bool) {
		name, ok := findSheet(f, string(domain.TableColumnMeta))
		found = ok
		return name, ok
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// Sheets reads every sheet in the workbook, keyed by sheet name.
func (s *Source) Sheets(_ context.Context) (map[string]*domain.Table, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	out := make(map[string]*domain.Table, len(names))
	for _, name := range names {
		t, err := readSheet(f, name)
		if err != nil {
			return nil, nil, err
		}
		out[name] = t
	}
	return out, names, nil
}

// AppendRow writes row below the last used row of the table's sheet.
// Columns the sheet lacks are added to its header. The sheet is created when
// missing.
func (s *Source) AppendRow(_ context.Context, table domain.TableName, row domain.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet, ok := findSheet(f, s.sheetFor(table))
	if !ok {
		sheet = s.sheetFor(table)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	var header []string
	if len(rows) > 0 {
		header = trimAll(rows[0])
	}
	current := &domain.Table{Columns: header}
	current.Append(row)
	cells := current.Rows[0]

	if len(current.Columns) != len(header) {
		h := make([]any, len(current.Columns))
		for i, c := range current.Columns {
			h[i] = c
		}
		if err := f.SetSheetRow(sheet, "A1", &h); err != nil {
			return fmt.Errorf("writing header of %s: %w", sheet, err)
		}
	}

	next := max(len(rows), 1) + 1
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", next, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing row to %s: %w", sheet, err)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("saving %s: %w", s.cfg.Path, err)
	}
	return nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "excel:" + s.cfg.Path
}

// Close is a no-op; the workbook is not held open.
func (s *Source) Close() error {
	return nil
}

func (s *Source) sheetFor(table domain.TableName) string {
	switch table {
	case domain.TableProject:
		return s.cfg.ProjectSheet
	case domain.TableInvoice:
		return s.cfg.InvoiceSheet
	default:
		return string(table)
	}
}

// read opens the workbook and reads the sheet chosen by pick. A sheet that
// cannot be picked yields an empty table.
func (s *Source) read(pick func(*excelize.File) (string, bool)) (*domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name, ok := pick(f)
	if !ok {
		return &domain.Table{}, nil
	}
	return readSheet(f, name)
}

func (s *Source) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("workbook %s not found: %w", s.cfg.Path, domain.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("opening workbook %s: %w: %v", s.cfg.Path, domain.ErrSourceUnavailable, err)
	}
	return f, nil
}

// readSheet converts a sheet to a table. The first row is the header.
// Cells are read unformatted so percentages and accounting formats keep
// their numeric value; serial numbers in date-formatted cells become
// time.Time. Blank cells become nil.
func readSheet(f *excelize.File, sheet string) (*domain.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &domain.Table{}, nil
	}

	dates := newDateStyles(f)
	t := &domain.Table{Columns: rows[0]}
	for r, row := range rows[1:] {
		cells := make([]any, len(row))
		for c, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			cells[c] = v
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				continue
			}
			if tm, ok := dates.convert(sheet, name, v); ok {
				cells[c] = tm
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// dateStyles remembers which cell styles carry a date number format.
type dateStyles struct {
	f        *excelize.File
	date1904 bool
	known    map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	d := &dateStyles{f: f, known: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// convert returns the date held by a date-formatted numeric cell.
func (d *dateStyles) convert(sheet, cell, raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, false
	}
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || !d.isDate(styleID) {
		return time.Time{}, false
	}
	tm, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

func (d *dateStyles) isDate(styleID int) bool {
	if v, ok := d.known[styleID]; ok {
		return v
	}
	is := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			is = isDateFormat(*style.CustomNumFmt)
		} else {
			is = isBuiltinDateFormat(style.NumFmt)
		}
	}
	d.known[styleID] = is
	return is
}

// isBuiltinDateFormat reports whether a built-in number format id shows a
// date: 14-22 and 45-47, plus the East Asian date ids 27-36 and 50-58.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom format code has a day or year
// token outside quoted text, escapes and bracketed sections.
func isDateFormat(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == 'd' || ch == 'D' || ch == 'y' || ch == 'Y':
			return true
		}
	}
	return false
}

// findSheet matches name exactly, then case-insensitively after trimming.
func findSheet(f *excelize.File, name string) (string, bool) {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s, true
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return "", false
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
