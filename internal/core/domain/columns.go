package domain

// Project table columns.
const (
	ColProject        = "Project"
	ColCustomer       = "Customer"
	ColEngineer       = "Project Engineer"
	ColYear           = "Project year"
	ColOrderNumber    = "Order number"
	ColProduct        = "Product"
	ColQty            = "Qty"
	ColProjectValue   = "Project Value"
	ColBalance        = "Balance"
	ColStatus         = "Status"
	ColProgress       = "Progress"
	ColPhrase         = "Project Phrase"
	ColManufacturedBy = "Manufactured by"
	ColPODate         = "PO Date"
	ColEstimatedShip  = "Estimated shipdate"
	ColActualShip     = "Actual shipdate"
	ColCreatedAt      = "Created at"
)

// Invoice table columns. Invoices share ColYear, ColEngineer, ColCustomer
// and ColCreatedAt with projects.
const (
	ColSaleOrder       = "Sale order No."
	ColInvoiceValue    = "Invoice value"
	ColPlanDate        = "Invoice plan date"
	ColIssuedDate      = "Issued Date"
	ColPaymentStatus   = "Payment Status"
	ColCurrency        = "Currency unit"
	ColDueDate         = "Invoice due date"
	ColExpectedPayment = "Expected Payment date"
	ColActualPayment   = "Actual Payment received date"
)

// Column metadata table columns.
const (
	ColMetaTable       = "Table_name"
	ColMetaField       = "Field_name"
	ColMetaDescription = "Description"
)
