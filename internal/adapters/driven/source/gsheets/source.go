package gsheets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.TabularSource    = (*Source)(nil)
	_ driven.ColumnMetaSource = (*Source)(nil)
)

// Config describes the spreadsheet and how to reach it.
type Config struct {
	SpreadsheetID string

	// CredentialsPath is a service-account JSON key file.
	CredentialsPath string

	ProjectSheet string
	InvoiceSheet string

	// TokenSource overrides CredentialsPath when set.
	TokenSource oauth2.TokenSource

	// Endpoint and HTTPClient override the API endpoint, for tests.
	Endpoint   string
	HTTPClient *http.Client

	RateLimit RateLimitConfig
}

// Source reads business tables from a spreadsheet.
type Source struct {
	cfg     Config
	svc     *sheets.Service
	limiter *RateLimiter
}

// NewSource creates a spreadsheet source.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID required: %w", domain.ErrInvalidInput)
	}
	if cfg.ProjectSheet == "" {
		cfg.ProjectSheet = string(domain.TableProject)
	}
	if cfg.InvoiceSheet == "" {
		cfg.InvoiceSheet = string(domain.TableInvoice)
	}

	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Source{
		cfg:     cfg,
		svc:     svc,
		limiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

func clientOptions(ctx context.Context, cfg Config) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.TokenSource != nil:
		opts = append(opts, option.WithTokenSource(cfg.TokenSource))
	case cfg.CredentialsPath != "":
		data, err := os.ReadFile(cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("reading credentials: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parsing credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(jwt.TokenSource(ctx)))
	default:
		return nil, fmt.Errorf("credentials file required: %w", domain.ErrInvalidInput)
	}
	return opts, nil
}

// FetchProjects reads the project sheet.
func (s *Source) FetchProjects(ctx context.Context) (*domain.Table, error) {
	return s.readSheet(ctx, s.cfg.ProjectSheet)
}

// FetchInvoices reads the invoice sheet.
func (s *Source) FetchInvoices(ctx context.Context) (*domain.Table, error) {
	return s.readSheet(ctx, s.cfg.InvoiceSheet)
}

// FetchColumnMeta reads the COLUMN_META sheet, or returns domain.ErrNotFound.
func (s *Source) FetchColumnMeta(ctx context.Context) (*domain.Table, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, sheetRange(string(domain.TableColumnMeta), "")).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		if IsMissingRange(err) {
			return nil, domain.ErrNotFound
		}
		return nil, s.wrap("read "+string(domain.TableColumnMeta), err)
	}
	return toTable(resp.Values), nil
}

// AppendRow appends row below the table's data. Columns the sheet lacks are
// added to its header first.
func (s *Source) AppendRow(ctx context.Context, table domain.TableName, row domain.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row: %w", domain.ErrInvalidInput)
	}
	sheet := s.sheetFor(table)

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	head, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, sheetRange(sheet, "1:1")).Context(ctx).Do()
	if err != nil {
		return s.wrap("read header of "+sheet, err)
	}

	var header []string
	if len(head.Values) > 0 {
		header = headerOf(head.Values[0])
	}
	current := &domain.Table{Columns: header}
	current.Append(row)

	if len(current.Columns) != len(header) {
		values := make([]any, len(current.Columns))
		for i, c := range current.Columns {
			values[i] = c
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := s.svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, sheetRange(sheet, "A1"),
			&sheets.ValueRange{Values: [][]any{values}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return s.wrap("write header of "+sheet, err)
		}
		logger.Debug("gsheets: extended %s header to %d columns", sheet, len(values))
	}

	cells := current.Rows[0]
	for i, c := range cells {
		if c == nil {
			cells[i] = ""
		}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.Append(s.cfg.SpreadsheetID, sheetRange(sheet, ""),
		&sheets.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return s.wrap("append to "+sheet, err)
	}
	return nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "gsheets:" + s.cfg.SpreadsheetID
}

// Close is a no-op.
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

func (s *Source) readSheet(ctx context.Context, sheet string) (*domain.Table, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, sheetRange(sheet, "")).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.wrap("read "+sheet, err)
	}
	return toTable(resp.Values), nil
}

func (s *Source) wrap(op string, err error) error {
	if IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
	return WrapError(op, err)
}

// sheetRange builds an A1 range for a sheet name, quoting it.
func sheetRange(sheet, cells string) string {
	r := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if cells != "" {
		r += "!" + cells
	}
	return r
}

// toTable converts API values to a table. The first row is the header.
// Numbers arrive as float64; blank strings become nil.
func toTable(values [][]any) *domain.Table {
	if len(values) == 0 {
		return &domain.Table{}
	}
	t := &domain.Table{Columns: headerOf(values[0])}
	for _, r := range values[1:] {
		cells := make([]any, len(r))
		for i, v := range r {
			if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
				continue
			}
			cells[i] = v
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func headerOf(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
