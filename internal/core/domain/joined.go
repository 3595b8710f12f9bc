package domain

// JoinedRecord is an invoice paired with at most one project sharing its
// order key. Customer, Engineer and ProjectName are the combined columns:
// the invoice value when present, otherwise the project value.
type JoinedRecord struct {
	Invoice InvoiceRecord

	// Project is nil when no project shares the key.
	Project *ProjectRecord

	Customer    string
	Engineer    string
	ProjectName string
}

// Matched reports whether a project was found for the invoice.
func (j JoinedRecord) Matched() bool {
	return j.Project != nil
}
