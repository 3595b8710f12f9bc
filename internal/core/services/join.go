package services

import (
	"strings"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// JoinInvoices left-joins invoices to projects on their order keys.
//
// Projects are deduplicated per key keeping the first occurrence, so each
// invoice matches at most one project. Empty keys never match. The result
// has one entry per invoice, in invoice order.
func JoinInvoices(invoices []domain.InvoiceRecord, projects []domain.ProjectRecord) []domain.JoinedRecord {
	byKey := make(map[string]int, len(projects))
	for i := range projects {
		key := projects[i].OrderKey
		if key == "" {
			continue
		}
		if _, seen := byKey[key]; !seen {
			byKey[key] = i
		}
	}

	out := make([]domain.JoinedRecord, len(invoices))
	for i, inv := range invoices {
		j := domain.JoinedRecord{Invoice: inv}
		if inv.OrderKey != "" {
			if idx, ok := byKey[inv.OrderKey]; ok {
				p := projects[idx]
				j.Project = &p
			}
		}
		var customer, engineer, name string
		if j.Project != nil {
			customer, engineer, name = j.Project.Customer, j.Project.Engineer, j.Project.Project
		}
		j.Customer = coalesce(inv.Customer, customer)
		j.Engineer = coalesce(inv.Engineer, engineer)
		j.ProjectName = coalesce(inv.Project, name)
		out[i] = j
	}
	return out
}

// coalesce returns primary unless it is blank.
func coalesce(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}
