package memory

import "github.com/custodia-labs/pidash/internal/core/domain"

// NewDemoSource returns a source seeded with a small sample of projects,
// invoices and glossary entries.
func NewDemoSource() *Source {
	s := NewSource()
	s.SetTable(domain.TableProject, &domain.Table{
		Columns: []string{
			domain.ColProject, domain.ColCustomer, domain.ColEngineer, domain.ColYear,
			domain.ColOrderNumber, domain.ColProduct, domain.ColQty, domain.ColProjectValue,
			domain.ColBalance, domain.ColStatus, domain.ColProgress, domain.ColPhrase,
			domain.ColPODate, domain.ColEstimatedShip,
		},
		Rows: [][]any{
			{"North Substation", "Acme Power", "Somchai", 2024.0, 4101.0, "Switchgear", 4.0, 2400000.0, 600000.0, "On track", 0.75, "Testing", "2024-02-12", "2024-09-30"},
			{"River Pump Station", "Delta Water", "Niran", 2024.0, 4102.0, "Control Panel", 6.0, 1250000.0, 1250000.0, "Delayed", 0.30, "Fabrication", "2024-04-03", "2024-11-15"},
			{"Harbour Cranes", "Portline", "Ploy", 2025.0, 5001.0, "Drive Cabinet", 2.0, 880000.0, 440000.0, "On track", 0.5, "Design", "2025-01-20", "2025-07-01"},
		},
	})
	s.SetTable(domain.TableInvoice, &domain.Table{
		Columns: []string{
			domain.ColYear, domain.ColEngineer, domain.ColSaleOrder, domain.ColCustomer,
			domain.ColInvoiceValue, domain.ColPlanDate, domain.ColIssuedDate, domain.ColPaymentStatus,
			domain.ColCurrency, domain.ColDueDate, domain.ColExpectedPayment, domain.ColActualPayment,
		},
		Rows: [][]any{
			{2024.0, "Somchai", 4101.0, "Acme Power", 1200000.0, "2024-03-01", "2024-03-04", "Paid", "THB", "2024-04-03", "2024-04-03", "2024-04-08"},
			{2024.0, "Somchai", 4101.0, "Acme Power", 600000.0, "2024-08-01", "2024-08-02", "Paid", "THB", "2024-09-01", "2024-09-01", "2024-09-01"},
			{2024.0, "Niran", 4102.0, "Delta Water", 625000.0, "2024-06-01", "2024-06-05", "Overdue", "THB", "2024-07-05", "2024-07-05", nil},
			{2025.0, "Ploy", 5001.0, "Portline", 440000.0, "2025-03-01", nil, "Planned", "USD", "2025-04-01", "2025-04-01", nil},
		},
	})
	s.SetTable(domain.TableColumnMeta, &domain.Table{
		Columns: []string{domain.ColMetaTable, domain.ColMetaField, domain.ColMetaDescription},
		Rows: [][]any{
			{"Project", "Balance", "Project value not yet invoiced"},
			{"Project", "Progress", "Completion ratio between 0 and 1"},
			{"Invoice", "Payment Status", "Paid, Planned or Overdue"},
		},
	})
	return s
}
