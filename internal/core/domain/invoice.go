package domain

import "time"

// PaymentStatus is the collection state of an invoice.
type PaymentStatus string

// Payment statuses offered by the append form.
const (
	PaymentStatusPlanned  PaymentStatus = "Planned"
	PaymentStatusInvoiced PaymentStatus = "Invoiced"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusOverdue  PaymentStatus = "Overdue"
)

// AllPaymentStatuses returns the statuses offered when adding an invoice.
func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentStatusPlanned,
		PaymentStatusInvoiced,
		PaymentStatusPaid,
		PaymentStatusOverdue,
	}
}

// IsValid returns true if the status is one of the form statuses.
func (s PaymentStatus) IsValid() bool {
	for _, v := range AllPaymentStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// InvoiceRecord is one row of the invoice table.
type InvoiceRecord struct {
	Year     *int
	Engineer string

	// OrderKey is the normalised sale order number.
	OrderKey string

	Customer      string
	Project       string
	InvoiceValue  *float64
	PlanDate      *time.Time
	IssuedDate    *time.Time
	PaymentStatus string
	Currency      string

	DueDate         *time.Time
	ExpectedPayment *time.Time
	ActualPayment   *time.Time
	CreatedAt       *time.Time
}
