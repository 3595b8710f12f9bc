package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// snippetSeparator joins the fields of a snippet.
const snippetSeparator = " | "

// BuildCorpus flattens records into ranked-retrieval documents.
//
// Documents are ordered projects, invoices, knowledge chunks, then the
// workflow description. Each domain is capped at in.RecordLimit records and
// knowledge at in.KnowledgeLimit chunks.
func BuildCorpus(in domain.CorpusInput) []domain.CorpusDocument {
	recordLimit := in.RecordLimit
	if recordLimit <= 0 {
		recordLimit = domain.DefaultRecordLimit
	}
	knowledgeLimit := in.KnowledgeLimit
	if knowledgeLimit <= 0 {
		knowledgeLimit = domain.DefaultKnowledgeLimit
	}

	var docs []domain.CorpusDocument
	if in.Domain.IncludesProjects() {
		for _, p := range head(in.Projects, recordLimit) {
			docs = append(docs, domain.CorpusDocument{
				Source: domain.CorpusSourceProject,
				Text:   ProjectSnippet(p),
			})
		}
	}
	if in.Domain.IncludesInvoices() {
		for _, j := range head(in.Invoices, recordLimit) {
			docs = append(docs, domain.CorpusDocument{
				Source: domain.CorpusSourceInvoice,
				Text:   InvoiceSnippet(j),
			})
		}
	}
	if in.IncludeKnowledge {
		for _, chunk := range head(in.Knowledge, knowledgeLimit) {
			docs = append(docs, domain.CorpusDocument{
				Source: domain.CorpusSourceKnowledge,
				Text:   chunk,
			})
		}
	}
	if in.IncludeWorkflow {
		text := in.Workflow
		if text == "" {
			text = domain.DefaultWorkflow
		}
		docs = append(docs, domain.CorpusDocument{
			Source: domain.CorpusSourceWorkflow,
			Text:   text,
		})
	}
	return docs
}

// ProjectSnippet renders a project as
// Project, Customer, Engineer, Order, Status, Progress, Value, Balance, Phrase.
// Empty fields are omitted.
func ProjectSnippet(p domain.ProjectRecord) string {
	var b snippetBuilder
	b.add("Project", p.Project)
	b.add("Customer", p.Customer)
	b.add("Engineer", p.Engineer)
	b.add("Order", p.OrderKey)
	b.add("Status", p.Status)
	if p.Progress != nil {
		b.add("Progress", formatPercent(*p.Progress))
	}
	b.add("Value", formatNumber(p.Value))
	b.add("Balance", formatNumber(p.Balance))
	b.add("Phrase", p.Phrase)
	return b.String()
}

// formatPercent renders a fraction as a whole percentage. Halves round to
// even on the scaled value, so 0.425 reads 42%.
func formatPercent(f float64) string {
	s := strconv.FormatFloat(f*100, 'f', 0, 64)
	if s == "-0" {
		s = "0"
	}
	return s + "%"
}

// InvoiceSnippet renders an invoice as
// Customer, Engineer, Order, Invoice value, Payment status, Plan date, Issued.
// Customer and Engineer are the combined join values. Empty fields are omitted.
func InvoiceSnippet(j domain.JoinedRecord) string {
	inv := j.Invoice
	var b snippetBuilder
	b.add("Customer", coalesce(j.Customer, inv.Customer))
	b.add("Engineer", coalesce(j.Engineer, inv.Engineer))
	b.add("Order", inv.OrderKey)
	b.add("Invoice value", formatNumber(inv.InvoiceValue))
	b.add("Payment status", inv.PaymentStatus)
	b.add("Plan date", formatDate(inv.PlanDate))
	b.add("Issued", formatDate(inv.IssuedDate))
	return b.String()
}

type snippetBuilder struct {
	parts []string
}

func (b *snippetBuilder) add(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.parts = append(b.parts, label+": "+value)
}

func (b *snippetBuilder) String() string {
	return strings.Join(b.parts, snippetSeparator)
}

func formatNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
