package services

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
)

// Ensure DashboardService implements the interface.
var _ driving.DashboardService = (*DashboardService)(nil)

// Dashboard list sizes.
const (
	topOrders      = 20
	topInvoiceRank = 15
	topPayers      = 3
)

// DashboardService computes report views from loaded snapshots.
type DashboardService struct {
	loader *Loader
	now    func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(loader *Loader) *DashboardService {
	return &DashboardService{loader: loader, now: time.Now}
}

// ProjectDashboard summarises projects matching the filter.
func (s *DashboardService) ProjectDashboard(ctx context.Context, f domain.ProjectFilter) (*domain.ProjectDashboard, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	var rows []domain.ProjectRecord
	for _, p := range snap.Projects {
		if matchProject(p, f) {
			rows = append(rows, p)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no projects match the filter: %w", domain.ErrNotFound)
	}
	return SummariseProjects(rows, projectOptions(snap.Projects)), nil
}

// InvoiceDashboard summarises invoices joined to their projects.
func (s *DashboardService) InvoiceDashboard(ctx context.Context, f domain.InvoiceFilter) (*domain.InvoiceDashboard, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	var rows []domain.JoinedRecord
	for _, j := range JoinInvoices(snap.Invoices, snap.Projects) {
		if matchInvoice(j, f) {
			rows = append(rows, j)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no invoices match the filter: %w", domain.ErrNotFound)
	}
	return SummariseInvoices(rows), nil
}

// CRMDashboard lists unpaid invoices against the filter's reference day.
func (s *DashboardService) CRMDashboard(ctx context.Context, f domain.CRMFilter) (*domain.CRMDashboard, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	today := f.Today
	if today.IsZero() {
		today = s.now()
	}

	var rows []domain.JoinedRecord
	for _, j := range JoinInvoices(snap.Invoices, snap.Projects) {
		if matchAny(f.PaymentStatuses, j.Invoice.PaymentStatus) && matchAny(f.Customers, j.Customer) {
			rows = append(rows, j)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no invoices match the filter: %w", domain.ErrNotFound)
	}
	return SummariseCollections(rows, today), nil
}

// SummariseProjects computes project metrics. options is passed through.
func SummariseProjects(rows []domain.ProjectRecord, options domain.ProjectOptions) *domain.ProjectDashboard {
	d := &domain.ProjectDashboard{Rows: len(rows), Options: options}

	orders := make(map[string]*domain.OrderSummary)
	var orderKeys []string
	byEngineer := newTotals()
	byCustomer := newTotals()
	statuses := newCounts()
	var progressSum float64
	var progressN int

	for _, p := range rows {
		value, balance := deref(p.Value), deref(p.Balance)
		d.TotalValue += value
		d.TotalBalance += balance
		if p.Progress != nil {
			progressSum += *p.Progress
			progressN++
		}
		if p.OrderKey != "" {
			o, ok := orders[p.OrderKey]
			if !ok {
				o = &domain.OrderSummary{OrderKey: p.OrderKey}
				orders[p.OrderKey] = o
				orderKeys = append(orderKeys, p.OrderKey)
			}
			o.Value += value
			o.Balance += balance
			if o.Project == "" {
				o.Project = p.Project
			}
			if o.Customer == "" {
				o.Customer = p.Customer
			}
		}
		byEngineer.add(p.Engineer, value)
		byCustomer.add(p.Customer, value)
		statuses.add(p.Status)
	}

	if progressN > 0 {
		d.AverageProgress = progressSum / float64(progressN) * 100
	}
	d.DistinctOrders = len(orders)

	for _, family := range domain.ProductFamilies {
		var qty float64
		for _, p := range rows {
			if strings.Contains(strings.ToLower(p.Product), strings.ToLower(family)) {
				qty += deref(p.Qty)
			}
		}
		d.ProductQty = append(d.ProductQty, domain.Amount{Label: family, Value: qty})
	}

	for _, k := range orderKeys {
		d.TopOrders = append(d.TopOrders, *orders[k])
	}
	sort.SliceStable(d.TopOrders, func(i, j int) bool {
		return d.TopOrders[i].Value > d.TopOrders[j].Value
	})
	d.TopOrders = head(d.TopOrders, topOrders)

	d.StatusCounts = statuses.sorted()
	d.ValueByEngineer = byEngineer.sorted(0)
	d.ValueByCustomer = byCustomer.sorted(0)
	return d
}

// SummariseInvoices computes invoice metrics over joined rows.
// Matched project value and balance count each matched order once.
func SummariseInvoices(rows []domain.JoinedRecord) *domain.InvoiceDashboard {
	d := &domain.InvoiceDashboard{Rows: len(rows)}

	byCustomer := newTotals()
	byEngineer := newTotals()
	statuses := newCounts()
	planned := newTotals()
	actual := newTotals()
	seenOrders := make(map[string]bool)

	for _, j := range rows {
		value := deref(j.Invoice.InvoiceValue)
		d.TotalInvoiced += value
		if j.Project != nil {
			d.MatchedRows++
			if !seenOrders[j.Project.OrderKey] {
				seenOrders[j.Project.OrderKey] = true
				d.MatchedProjectValue += deref(j.Project.Value)
				d.MatchedBalance += deref(j.Project.Balance)
			}
		}
		byCustomer.add(j.Customer, value)
		byEngineer.add(j.Engineer, value)
		statuses.add(j.Invoice.PaymentStatus)
		if j.Invoice.PlanDate != nil {
			planned.add(j.Invoice.PlanDate.Format("2006-01"), value)
		}
		if j.Invoice.ActualPayment != nil {
			actual.add(j.Invoice.ActualPayment.Format("2006-01"), value)
		}
	}

	if d.MatchedProjectValue != 0 {
		d.CoveragePercent = d.TotalInvoiced / d.MatchedProjectValue * 100
	}
	d.ByCustomer = byCustomer.sorted(topInvoiceRank)
	d.ByEngineer = byEngineer.sorted(topInvoiceRank)
	d.PaymentStatusCounts = statuses.sorted()

	months := append(slices.Clone(planned.order), actual.order...)
	slices.Sort(months)
	for _, m := range slices.Compact(months) {
		d.Monthly = append(d.Monthly, domain.MonthlyInvoice{
			Month:   m,
			Planned: planned.values[m],
			Actual:  actual.values[m],
		})
	}
	return d
}

// SummariseCollections computes the collections view as of today.
//
// Unpaid invoices with an expected payment date are split into overdue
// (date passed) and upcoming. Aging total sums invoices whose status is
// "Aging". Payer behaviour averages actual minus expected payment days over
// paid invoices.
func SummariseCollections(rows []domain.JoinedRecord, today time.Time) *domain.CRMDashboard {
	d := &domain.CRMDashboard{Rows: len(rows)}
	day := truncateDay(today)

	unpaidCustomers := make(map[string]bool)
	type behaviour struct {
		total float64
		n     int
	}
	payers := make(map[string]*behaviour)
	var payerOrder []string

	for _, j := range rows {
		inv := j.Invoice
		value := deref(inv.InvoiceValue)
		if strings.EqualFold(strings.TrimSpace(inv.PaymentStatus), "aging") {
			d.AgingTotal += value
		}

		if isPaid(inv) {
			if inv.ActualPayment != nil && inv.ExpectedPayment != nil && j.Customer != "" {
				b, ok := payers[j.Customer]
				if !ok {
					b = &behaviour{}
					payers[j.Customer] = b
					payerOrder = append(payerOrder, j.Customer)
				}
				b.total += daysBetween(*inv.ExpectedPayment, *inv.ActualPayment)
				b.n++
			}
			continue
		}

		d.UnpaidRows++
		d.UnpaidTotal += value
		if j.Customer != "" {
			unpaidCustomers[j.Customer] = true
		}
		if inv.ExpectedPayment == nil {
			continue
		}
		late := int(daysBetween(*inv.ExpectedPayment, day))
		a := domain.AgingInvoice{
			OrderKey:        inv.OrderKey,
			Customer:        j.Customer,
			Engineer:        j.Engineer,
			Project:         j.ProjectName,
			InvoiceValue:    value,
			ExpectedPayment: *inv.ExpectedPayment,
			DaysLate:        late,
		}
		if late > 0 {
			d.Overdue = append(d.Overdue, a)
			d.OverdueTotal += value
		} else {
			d.Upcoming = append(d.Upcoming, a)
		}
	}
	d.UnpaidCustomers = len(unpaidCustomers)

	sort.SliceStable(d.Overdue, func(i, j int) bool { return d.Overdue[i].DaysLate > d.Overdue[j].DaysLate })
	sort.SliceStable(d.Upcoming, func(i, j int) bool { return d.Upcoming[i].DaysLate > d.Upcoming[j].DaysLate })

	all := make([]domain.PayerBehaviour, 0, len(payerOrder))
	for _, c := range payerOrder {
		b := payers[c]
		all = append(all, domain.PayerBehaviour{Customer: c, AverageDays: b.total / float64(b.n), Invoices: b.n})
	}
	fastest := slices.Clone(all)
	sort.SliceStable(fastest, func(i, j int) bool { return fastest[i].AverageDays < fastest[j].AverageDays })
	slowest := slices.Clone(all)
	sort.SliceStable(slowest, func(i, j int) bool { return slowest[i].AverageDays > slowest[j].AverageDays })
	d.FastestPayers = head(fastest, topPayers)
	d.SlowestPayers = head(slowest, topPayers)
	return d
}

func isPaid(inv domain.InvoiceRecord) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(inv.PaymentStatus)), "paid")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns to minus from in whole calendar days.
func daysBetween(from, to time.Time) float64 {
	return truncateDay(to).Sub(truncateDay(from)).Hours() / 24
}

func matchProject(p domain.ProjectRecord, f domain.ProjectFilter) bool {
	return matchAny(f.Engineers, p.Engineer) &&
		matchAny(f.Projects, p.Project) &&
		matchYear(f.Years, p.Year) &&
		matchAny(f.Statuses, p.Status) &&
		matchAny(f.Phrases, p.Phrase) &&
		matchAny(f.Customers, p.Customer)
}

func matchInvoice(j domain.JoinedRecord, f domain.InvoiceFilter) bool {
	return matchAny(f.Engineers, j.Engineer) &&
		matchAny(f.Projects, j.ProjectName) &&
		matchAny(f.Customers, j.Customer) &&
		matchYear(f.Years, j.Invoice.Year) &&
		matchAny(f.PaymentStatuses, j.Invoice.PaymentStatus)
}

func matchAny(want []string, v string) bool {
	return len(want) == 0 || slices.Contains(want, v)
}

func matchYear(want []int, v *int) bool {
	if len(want) == 0 {
		return true
	}
	return v != nil && slices.Contains(want, *v)
}

func projectOptions(rows []domain.ProjectRecord) domain.ProjectOptions {
	var o domain.ProjectOptions
	for _, p := range rows {
		o.Engineers = appendNonEmpty(o.Engineers, p.Engineer)
		o.Projects = appendNonEmpty(o.Projects, p.Project)
		o.Statuses = appendNonEmpty(o.Statuses, p.Status)
		o.Phrases = appendNonEmpty(o.Phrases, p.Phrase)
		o.Customers = appendNonEmpty(o.Customers, p.Customer)
		if p.Year != nil {
			o.Years = append(o.Years, *p.Year)
		}
	}
	for _, s := range []*[]string{&o.Engineers, &o.Projects, &o.Statuses, &o.Phrases, &o.Customers} {
		slices.Sort(*s)
		*s = slices.Compact(*s)
	}
	slices.Sort(o.Years)
	o.Years = slices.Compact(o.Years)
	return o
}

func appendNonEmpty(s []string, v string) []string {
	if strings.TrimSpace(v) == "" {
		return s
	}
	return append(s, v)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// totals sums values per label, remembering first-seen order.
type totals struct {
	values map[string]float64
	order  []string
}

func newTotals() *totals {
	return &totals{values: make(map[string]float64)}
}

func (t *totals) add(label string, v float64) {
	if strings.TrimSpace(label) == "" {
		return
	}
	if _, ok := t.values[label]; !ok {
		t.order = append(t.order, label)
	}
	t.values[label] += v
}

// sorted returns totals by descending value, capped at limit when positive.
func (t *totals) sorted(limit int) []domain.Amount {
	out := make([]domain.Amount, 0, len(t.order))
	for _, l := range t.order {
		out = append(out, domain.Amount{Label: l, Value: t.values[l]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 {
		out = head(out, limit)
	}
	return out
}

// counts tallies labels, remembering first-seen order.
type counts struct {
	values map[string]int
	order  []string
}

func newCounts() *counts {
	return &counts{values: make(map[string]int)}
}

func (c *counts) add(label string) {
	if strings.TrimSpace(label) == "" {
		return
	}
	if _, ok := c.values[label]; !ok {
		c.order = append(c.order, label)
	}
	c.values[label]++
}

func (c *counts) sorted() []domain.Count {
	out := make([]domain.Count, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, domain.Count{Label: l, Count: c.values[l]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
