package domain

import "time"

// ProjectFilter narrows the project dashboard. Empty slices match all.
type ProjectFilter struct {
	Engineers []string
	Projects  []string
	Years     []int
	Statuses  []string
	Phrases   []string
	Customers []string
}

// InvoiceFilter narrows the invoice dashboard. Empty slices match all.
type InvoiceFilter struct {
	Engineers       []string
	Projects        []string
	Customers       []string
	Years           []int
	PaymentStatuses []string
}

// CRMFilter narrows the collections view. Empty slices match all.
type CRMFilter struct {
	PaymentStatuses []string
	Customers       []string

	// Today is the reference date for aging. Zero means the current day.
	Today time.Time
}

// Amount is a labelled total.
type Amount struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Count is a labelled tally.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OrderSummary is one order in the top orders list.
type OrderSummary struct {
	OrderKey string  `json:"order"`
	Project  string  `json:"project"`
	Customer string  `json:"customer"`
	Value    float64 `json:"value"`
	Balance  float64 `json:"balance"`
}

// ProjectOptions are the distinct filter values present in the data.
type ProjectOptions struct {
	Engineers []string `json:"engineers"`
	Projects  []string `json:"projects"`
	Years     []int    `json:"years"`
	Statuses  []string `json:"statuses"`
	Phrases   []string `json:"phrases"`
	Customers []string `json:"customers"`
}

// ProjectDashboard is the computed project view.
type ProjectDashboard struct {
	Rows            int            `json:"rows"`
	TotalValue      float64        `json:"total_value"`
	TotalBalance    float64        `json:"total_balance"`
	AverageProgress float64        `json:"average_progress"`
	DistinctOrders  int            `json:"distinct_orders"`
	ProductQty      []Amount       `json:"product_qty"`
	StatusCounts    []Count        `json:"status_counts"`
	TopOrders       []OrderSummary `json:"top_orders"`
	ValueByEngineer []Amount       `json:"value_by_engineer"`
	ValueByCustomer []Amount       `json:"value_by_customer"`
	Options         ProjectOptions `json:"options"`
}

// MonthlyInvoice compares planned and received value for one month.
type MonthlyInvoice struct {
	Month   string  `json:"month"`
	Planned float64 `json:"planned"`
	Actual  float64 `json:"actual"`
}

// InvoiceDashboard is the computed invoice view.
type InvoiceDashboard struct {
	Rows                int              `json:"rows"`
	MatchedRows         int              `json:"matched_rows"`
	TotalInvoiced       float64          `json:"total_invoiced"`
	MatchedProjectValue float64          `json:"matched_project_value"`
	CoveragePercent     float64          `json:"coverage_percent"`
	MatchedBalance      float64          `json:"matched_balance"`
	ByCustomer          []Amount         `json:"by_customer"`
	ByEngineer          []Amount         `json:"by_engineer"`
	PaymentStatusCounts []Count          `json:"payment_status_counts"`
	Monthly             []MonthlyInvoice `json:"monthly"`
}

// AgingInvoice is an unpaid invoice with its distance from the expected payment date.
type AgingInvoice struct {
	OrderKey        string    `json:"order"`
	Customer        string    `json:"customer"`
	Engineer        string    `json:"engineer"`
	Project         string    `json:"project"`
	InvoiceValue    float64   `json:"invoice_value"`
	ExpectedPayment time.Time `json:"expected_payment"`

	// DaysLate is positive when the expected date has passed.
	DaysLate int `json:"days_late"`
}

// PayerBehaviour is a customer's average lateness on paid invoices.
type PayerBehaviour struct {
	Customer string `json:"customer"`

	// AverageDays is actual minus expected payment date. Negative pays early.
	AverageDays float64 `json:"average_days"`
	Invoices    int     `json:"invoices"`
}

// CRMDashboard is the computed collections view.
type CRMDashboard struct {
	Rows            int              `json:"rows"`
	AgingTotal      float64          `json:"aging_total"`
	UnpaidRows      int              `json:"unpaid_rows"`
	UnpaidTotal     float64          `json:"unpaid_total"`
	OverdueTotal    float64          `json:"overdue_total"`
	UnpaidCustomers int              `json:"unpaid_customers"`
	Overdue         []AgingInvoice   `json:"overdue"`
	Upcoming        []AgingInvoice   `json:"upcoming"`
	FastestPayers   []PayerBehaviour `json:"fastest_payers"`
	SlowestPayers   []PayerBehaviour `json:"slowest_payers"`
}
