package services

import (
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// EncodeProject builds the append row for a project.
// Nil optionals are written as nil. "Created at" is set to now in UTC
// unless the record carries one.
func EncodeProject(r domain.ProjectRecord, now time.Time) domain.Row {
	return domain.Row{
		domain.ColProject:      r.Project,
		domain.ColCustomer:     r.Customer,
		domain.ColEngineer:     r.Engineer,
		domain.ColYear:         intCell(r.Year),
		domain.ColOrderNumber:  r.OrderKey,
		domain.ColProduct:      r.Product,
		domain.ColQty:          floatCell(r.Qty),
		domain.ColProjectValue: floatCell(r.Value),
		domain.ColBalance:      floatCell(r.Balance),
		domain.ColStatus:       r.Status,
		domain.ColProgress:     floatCell(r.Progress),
		domain.ColPhrase:       r.Phrase,
		domain.ColCreatedAt:    createdAt(r.CreatedAt, now),
	}
}

// EncodeInvoice builds the append row for an invoice.
// Dates are written as YYYY-MM-DD.
func EncodeInvoice(r domain.InvoiceRecord, now time.Time) domain.Row {
	return domain.Row{
		domain.ColYear:          intCell(r.Year),
		domain.ColEngineer:      r.Engineer,
		domain.ColSaleOrder:     r.OrderKey,
		domain.ColCustomer:      r.Customer,
		domain.ColInvoiceValue:  floatCell(r.InvoiceValue),
		domain.ColPlanDate:      dateCell(r.PlanDate),
		domain.ColIssuedDate:    dateCell(r.IssuedDate),
		domain.ColPaymentStatus: r.PaymentStatus,
		domain.ColCurrency:      r.Currency,
		domain.ColCreatedAt:     createdAt(r.CreatedAt, now),
	}
}

func intCell(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func dateCell(v *time.Time) any {
	if v == nil || v.IsZero() {
		return nil
	}
	return v.Format(time.DateOnly)
}

func createdAt(v *time.Time, now time.Time) string {
	if v != nil && !v.IsZero() {
		return v.UTC().Format(time.RFC3339)
	}
	return now.UTC().Format(time.RFC3339)
}
