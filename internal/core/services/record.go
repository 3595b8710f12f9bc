package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// Accepted project years.
const (
	MinProjectYear = 2000
	MaxProjectYear = 2100
)

// RecordService appends validated rows and invalidates loaded snapshots.
type RecordService struct {
	source driven.TabularSource
	loader *Loader
	now    func() time.Time
}

// NewRecordService creates a record service. loader may be nil.
func NewRecordService(source driven.TabularSource, loader *Loader) *RecordService {
	return &RecordService{source: source, loader: loader, now: time.Now}
}

// AddProject validates and appends a project row.
func (s *RecordService) AddProject(ctx context.Context, rec domain.ProjectRecord) error {
	if err := ValidateProject(rec); err != nil {
		return err
	}
	return s.append(ctx, domain.TableProject, EncodeProject(rec, s.now()))
}

// AddInvoice validates and appends an invoice row.
func (s *RecordService) AddInvoice(ctx context.Context, rec domain.InvoiceRecord) error {
	if err := ValidateInvoice(rec); err != nil {
		return err
	}
	return s.append(ctx, domain.TableInvoice, EncodeInvoice(rec, s.now()))
}

func (s *RecordService) append(ctx context.Context, table domain.TableName, row domain.Row) error {
	if err := s.source.AppendRow(ctx, table, row); err != nil {
		return fmt.Errorf("append %s to %s: %w: %v", table, s.source.Name(), domain.ErrAppendFailure, err)
	}
	logger.Info("appended %s row to %s", table, s.source.Name())
	if s.loader != nil {
		if err := s.loader.Invalidate(ctx); err != nil {
			logger.Warn("record: %v", err)
		}
	}
	return nil
}

// ValidateProject checks a project before it is appended.
func ValidateProject(rec domain.ProjectRecord) error {
	var problems []string
	if strings.TrimSpace(rec.Project) == "" {
		problems = append(problems, "project name is required")
	}
	if NormaliseOrderKey(rec.OrderKey) == "" {
		problems = append(problems, "order number is required")
	}
	problems = append(problems, checkYear(rec.Year)...)
	if rec.Progress != nil && (*rec.Progress < 0 || *rec.Progress > 1) {
		problems = append(problems, "progress must be between 0 and 1")
	}
	if rec.Status != "" && !domain.ProjectStatus(rec.Status).IsValid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", rec.Status))
	}
	problems = append(problems, checkNonNegative("qty", rec.Qty)...)
	problems = append(problems, checkNonNegative("project value", rec.Value)...)
	problems = append(problems, checkNonNegative("balance", rec.Balance)...)
	return invalid(problems)
}

// ValidateInvoice checks an invoice before it is appended.
func ValidateInvoice(rec domain.InvoiceRecord) error {
	var problems []string
	if NormaliseOrderKey(rec.OrderKey) == "" {
		problems = append(problems, "sale order number is required")
	}
	problems = append(problems, checkYear(rec.Year)...)
	if rec.PaymentStatus != "" && !domain.PaymentStatus(rec.PaymentStatus).IsValid() {
		problems = append(problems, fmt.Sprintf("unknown payment status %q", rec.PaymentStatus))
	}
	problems = append(problems, checkNonNegative("invoice value", rec.InvoiceValue)...)
	return invalid(problems)
}

func checkYear(y *int) []string {
	if y != nil && (*y < MinProjectYear || *y > MaxProjectYear) {
		return []string{fmt.Sprintf("project year must be between %d and %d", MinProjectYear, MaxProjectYear)}
	}
	return nil
}

func checkNonNegative(name string, v *float64) []string {
	if v != nil && *v < 0 {
		return []string{name + " must not be negative"}
	}
	return nil
}

func invalid(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", strings.Join(problems, "; "), domain.ErrInvalidInput)
}
