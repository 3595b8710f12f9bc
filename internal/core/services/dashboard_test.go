package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func newDashboards() *DashboardService {
	return NewDashboardService(NewLoader(sampleSource(), nil, 0))
}

func TestProjectDashboard(t *testing.T) {
	d, err := newDashboards().ProjectDashboard(context.Background(), domain.ProjectFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, d.Rows)
	assert.InDelta(t, 1500000, d.TotalValue, 1e-6)
	assert.InDelta(t, 250000, d.TotalBalance, 1e-6)
	assert.InDelta(t, 71, d.AverageProgress, 1e-6)
	assert.Equal(t, 2, d.DistinctOrders)
	assert.Equal(t, []domain.Amount{
		{Label: "Control Panel", Value: 2},
		{Label: "Heater", Value: 1},
		{Label: "Vessel", Value: 0},
	}, d.ProductQty)
	require.Len(t, d.TopOrders, 2)
	assert.Equal(t, "500", d.TopOrders[0].OrderKey)
	assert.Equal(t, "Alpha Plant", d.TopOrders[0].Project)
	assert.Equal(t, []string{"Niran", "Somchai"}, d.Options.Engineers)
	assert.Equal(t, []int{2024, 2025}, d.Options.Years)
}

func TestProjectDashboard_Filter(t *testing.T) {
	svc := newDashboards()

	d, err := svc.ProjectDashboard(context.Background(), domain.ProjectFilter{Years: []int{2025}})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Rows)
	assert.Equal(t, "Beta Line", d.TopOrders[0].Project)
	assert.Len(t, d.Options.Projects, 2, "options cover the unfiltered data")

	_, err = svc.ProjectDashboard(context.Background(), domain.ProjectFilter{Engineers: []string{"Nobody"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceDashboard(t *testing.T) {
	d, err := newDashboards().InvoiceDashboard(context.Background(), domain.InvoiceFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, d.Rows)
	assert.Equal(t, 2, d.MatchedRows)
	assert.InDelta(t, 600000, d.TotalInvoiced, 1e-6)
	assert.InDelta(t, 1000000, d.MatchedProjectValue, 1e-6, "order 500 counted once")
	assert.InDelta(t, 60, d.CoveragePercent, 1e-6)
	assert.InDelta(t, 250000, d.MatchedBalance, 1e-6)

	assert.Equal(t, domain.Amount{Label: "Somchai", Value: 500000}, d.ByEngineer[0])
	assert.Equal(t, domain.Amount{Label: "Acme", Value: 300000}, d.ByCustomer[0])

	months := make([]string, len(d.Monthly))
	for i, m := range d.Monthly {
		months[i] = m.Month
	}
	assert.Equal(t, []string{"2024-03", "2024-04", "2024-05", "2025-01"}, months)
	assert.InDelta(t, 200000, d.Monthly[2].Actual, 1e-6)
}

func TestInvoiceDashboard_FilterOnJoinedValues(t *testing.T) {
	d, err := newDashboards().InvoiceDashboard(context.Background(), domain.InvoiceFilter{Customers: []string{"Acme"}})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Rows)

	d, err = newDashboards().InvoiceDashboard(context.Background(), domain.InvoiceFilter{Projects: []string{"Alpha Plant"}})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Rows)
}

func TestCRMDashboard(t *testing.T) {
	today := time.Date(2024, time.April, 11, 15, 0, 0, 0, time.UTC)
	d, err := newDashboards().CRMDashboard(context.Background(), domain.CRMFilter{Today: today})
	require.NoError(t, err)

	assert.Equal(t, 2, d.UnpaidRows)
	assert.InDelta(t, 400000, d.UnpaidTotal, 1e-6)
	assert.InDelta(t, 300000, d.OverdueTotal, 1e-6)
	assert.Equal(t, 2, d.UnpaidCustomers)

	require.Len(t, d.Overdue, 1)
	assert.Equal(t, 10, d.Overdue[0].DaysLate)
	assert.Equal(t, "Alpha Plant", d.Overdue[0].Project)
	require.Len(t, d.Upcoming, 1)
	assert.Negative(t, d.Upcoming[0].DaysLate)

	require.Len(t, d.FastestPayers, 1)
	assert.Equal(t, domain.PayerBehaviour{Customer: "Acme Direct", AverageDays: 3, Invoices: 1}, d.FastestPayers[0])
	assert.Equal(t, d.FastestPayers, d.SlowestPayers)
}

func TestSummariseCollections_Aging(t *testing.T) {
	rows := []domain.JoinedRecord{
		{Invoice: domain.InvoiceRecord{PaymentStatus: "Aging", InvoiceValue: f64(10)}, Customer: "A"},
		{Invoice: domain.InvoiceRecord{PaymentStatus: "aging ", InvoiceValue: f64(5)}, Customer: "B"},
		{Invoice: domain.InvoiceRecord{PaymentStatus: "Paid late", InvoiceValue: f64(7)}, Customer: "C"},
	}

	d := SummariseCollections(rows, time.Now())

	assert.InDelta(t, 15, d.AgingTotal, 1e-9)
	assert.Equal(t, 2, d.UnpaidRows)
	assert.Empty(t, d.Overdue, "no expected payment dates")
}

func TestSummariseCollections_PayerRanking(t *testing.T) {
	paid := func(customer string, late int) domain.JoinedRecord {
		exp := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		act := exp.AddDate(0, 0, late)
		return domain.JoinedRecord{
			Invoice:  domain.InvoiceRecord{PaymentStatus: "Paid", ExpectedPayment: &exp, ActualPayment: &act},
			Customer: customer,
		}
	}
	rows := []domain.JoinedRecord{
		paid("A", 10), paid("B", -2), paid("C", 0), paid("D", 30), paid("A", 20),
	}

	d := SummariseCollections(rows, time.Now())

	require.Len(t, d.FastestPayers, 3)
	assert.Equal(t, "B", d.FastestPayers[0].Customer)
	assert.Equal(t, "D", d.SlowestPayers[0].Customer)
	assert.Equal(t, "A", d.SlowestPayers[1].Customer)
	assert.InDelta(t, 15, d.SlowestPayers[1].AverageDays, 1e-9)
	assert.Equal(t, 2, d.SlowestPayers[1].Invoices)
}

func TestSummariseProjects_TopOrdersCapped(t *testing.T) {
	var rows []domain.ProjectRecord
	for i := 0; i < 30; i++ {
		rows = append(rows, domain.ProjectRecord{OrderKey: NormaliseOrderKey(i + 1), Value: f64(float64(i))})
	}

	d := SummariseProjects(rows, domain.ProjectOptions{})

	require.Len(t, d.TopOrders, topOrders)
	assert.Equal(t, "30", d.TopOrders[0].OrderKey)
	assert.Zero(t, d.AverageProgress)
}
