package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var (
	projectFilter domain.ProjectFilter
	invoiceFilter domain.InvoiceFilter
	crmStatuses   []string
	crmCustomers  []string
	crmToday      string
	dashboardJSON bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Show the project dashboard",
	Long: `Summarise projects: total value and balance, average progress, product
quantities, status counts, the top 20 orders and value by engineer and customer.

Filters accept repeated flags or comma-separated lists.`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Show the invoice dashboard",
	Long: `Summarise invoices joined to their projects by order number: coverage of
project value, payment status counts, value by customer and engineer and the
monthly planned versus actual payments.`,
	Args: cobra.NoArgs,
	RunE: runInvoice,
}

var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "Show unpaid invoices by days overdue",
	Long: `List unpaid invoices split into overdue and upcoming by their expected
payment date, with the fastest and slowest paying customers.`,
	Args: cobra.NoArgs,
	RunE: runCRM,
}

func init() {
	pf := projectCmd.Flags()
	pf.StringSliceVar(&projectFilter.Engineers, "engineer", nil, "only these engineers")
	pf.StringSliceVar(&projectFilter.Projects, "project", nil, "only these projects")
	pf.IntSliceVar(&projectFilter.Years, "year", nil, "only these project years")
	pf.StringSliceVar(&projectFilter.Statuses, "status", nil, "only these statuses")
	pf.StringSliceVar(&projectFilter.Phrases, "phrase", nil, "only these phrases")
	pf.StringSliceVar(&projectFilter.Customers, "customer", nil, "only these customers")
	pf.BoolVar(&dashboardJSON, "json", false, "output as JSON")

	inf := invoiceCmd.Flags()
	inf.StringSliceVar(&invoiceFilter.Engineers, "engineer", nil, "only these engineers")
	inf.StringSliceVar(&invoiceFilter.Projects, "project", nil, "only these projects")
	inf.StringSliceVar(&invoiceFilter.Customers, "customer", nil, "only these customers")
	inf.IntSliceVar(&invoiceFilter.Years, "year", nil, "only these years")
	inf.StringSliceVar(&invoiceFilter.PaymentStatuses, "payment-status", nil, "only these payment statuses")
	inf.BoolVar(&dashboardJSON, "json", false, "output as JSON")

	cf := crmCmd.Flags()
	cf.StringSliceVar(&crmStatuses, "payment-status", nil, "only these payment statuses")
	cf.StringSliceVar(&crmCustomers, "customer", nil, "only these customers")
	cf.StringVar(&crmToday, "today", "", "reference date YYYY-MM-DD (default today)")
	cf.BoolVar(&dashboardJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(crmCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	d, err := dashboardService.ProjectDashboard(cmd.Context(), projectFilter)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No projects match the filters.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("project dashboard failed: %w", err)
	}

	if dashboardJSON {
		return printJSON(cmd, d)
	}
	cmd.Print(renderProject(d))
	return nil
}

func renderProject(d *domain.ProjectDashboard) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Projects") + "\n")
	b.WriteString(theme.Metrics(
		"Rows", strconv.Itoa(d.Rows),
		"Orders", strconv.Itoa(d.DistinctOrders),
		"Total value", money(d.TotalValue),
		"Balance", money(d.TotalBalance),
		"Avg progress", percent(d.AverageProgress),
	) + "\n")

	if len(d.ProductQty) > 0 {
		b.WriteString(theme.Section("Product quantity",
			theme.Table([]string{"Product", "Qty"}, amountRows(d.ProductQty, qty))))
	}
	if len(d.StatusCounts) > 0 {
		b.WriteString(theme.Section("Status",
			theme.Table([]string{"Status", "Projects"}, countRows(d.StatusCounts))))
	}
	if len(d.TopOrders) > 0 {
		rows := make([][]string, len(d.TopOrders))
		for i, o := range d.TopOrders {
			rows[i] = []string{o.OrderKey, o.Project, o.Customer, money(o.Value), money(o.Balance)}
		}
		b.WriteString(theme.Section("Top orders",
			theme.Table([]string{"Order", "Project", "Customer", "Value", "Balance"}, rows)))
	}
	if len(d.ValueByEngineer) > 0 {
		b.WriteString(theme.Section("Value by engineer",
			theme.Table([]string{"Engineer", "Value"}, amountRows(d.ValueByEngineer, money))))
	}
	if len(d.ValueByCustomer) > 0 {
		b.WriteString(theme.Section("Value by customer",
			theme.Table([]string{"Customer", "Value"}, amountRows(d.ValueByCustomer, money))))
	}
	return b.String()
}

func runInvoice(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	d, err := dashboardService.InvoiceDashboard(cmd.Context(), invoiceFilter)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No invoices match the filters.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("invoice dashboard failed: %w", err)
	}

	if dashboardJSON {
		return printJSON(cmd, d)
	}
	cmd.Print(renderInvoice(d))
	return nil
}

func renderInvoice(d *domain.InvoiceDashboard) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Invoices") + "\n")
	b.WriteString(theme.Metrics(
		"Invoices", strconv.Itoa(d.Rows),
		"Matched", strconv.Itoa(d.MatchedRows),
		"Invoiced", money(d.TotalInvoiced),
		"Project value", money(d.MatchedProjectValue),
		"Coverage", percent(d.CoveragePercent),
		"Balance", money(d.MatchedBalance),
	) + "\n")

	if len(d.PaymentStatusCounts) > 0 {
		b.WriteString(theme.Section("Payment status",
			theme.Table([]string{"Status", "Invoices"}, countRows(d.PaymentStatusCounts))))
	}
	if len(d.ByCustomer) > 0 {
		b.WriteString(theme.Section("Invoiced by customer",
			theme.Table([]string{"Customer", "Value"}, amountRows(d.ByCustomer, money))))
	}
	if len(d.ByEngineer) > 0 {
		b.WriteString(theme.Section("Invoiced by engineer",
			theme.Table([]string{"Engineer", "Value"}, amountRows(d.ByEngineer, money))))
	}
	if len(d.Monthly) > 0 {
		rows := make([][]string, len(d.Monthly))
		for i, m := range d.Monthly {
			rows[i] = []string{m.Month, money(m.Planned), money(m.Actual)}
		}
		b.WriteString(theme.Section("Monthly",
			theme.Table([]string{"Month", "Planned", "Actual"}, rows)))
	}
	return b.String()
}

func runCRM(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	filter := domain.CRMFilter{
		PaymentStatuses: crmStatuses,
		Customers:       crmCustomers,
	}
	if crmToday != "" {
		today, err := time.Parse(time.DateOnly, crmToday)
		if err != nil {
			return fmt.Errorf("invalid --today %q: want YYYY-MM-DD", crmToday)
		}
		filter.Today = today
	}

	d, err := dashboardService.CRMDashboard(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("crm dashboard failed: %w", err)
	}

	if dashboardJSON {
		return printJSON(cmd, d)
	}
	cmd.Print(renderCRM(d))
	return nil
}

func renderCRM(d *domain.CRMDashboard) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Collections") + "\n")
	b.WriteString(theme.Metrics(
		"Unpaid", strconv.Itoa(d.UnpaidRows),
		"Unpaid total", money(d.UnpaidTotal),
		"Overdue total", money(d.OverdueTotal),
		"Customers", strconv.Itoa(d.UnpaidCustomers),
	) + "\n")

	if d.UnpaidRows == 0 {
		b.WriteString(theme.Success.Render("Nothing outstanding.") + "\n")
	}
	if len(d.Overdue) > 0 {
		b.WriteString(theme.Section("Overdue",
			theme.Table([]string{"Order", "Customer", "Project", "Value", "Expected", "Days late"},
				agingRows(d.Overdue, 1))))
	}
	if len(d.Upcoming) > 0 {
		b.WriteString(theme.Section("Upcoming",
			theme.Table([]string{"Order", "Customer", "Project", "Value", "Expected", "Days left"},
				agingRows(d.Upcoming, -1))))
	}
	if len(d.FastestPayers) > 0 {
		b.WriteString(theme.Section("Fastest payers",
			theme.Table([]string{"Customer", "Avg days", "Invoices"}, payerRows(d.FastestPayers))))
	}
	if len(d.SlowestPayers) > 0 {
		b.WriteString(theme.Section("Slowest payers",
			theme.Table([]string{"Customer", "Avg days", "Invoices"}, payerRows(d.SlowestPayers))))
	}
	return b.String()
}

// agingRows renders days multiplied by sign so upcoming invoices show days left.
func agingRows(in []domain.AgingInvoice, sign int) [][]string {
	rows := make([][]string, len(in))
	for i, a := range in {
		rows[i] = []string{
			a.OrderKey,
			a.Customer,
			a.Project,
			money(a.InvoiceValue),
			a.ExpectedPayment.Format(time.DateOnly),
			strconv.Itoa(a.DaysLate * sign),
		}
	}
	return rows
}

func payerRows(in []domain.PayerBehaviour) [][]string {
	rows := make([][]string, len(in))
	for i, p := range in {
		rows[i] = []string{p.Customer, fmt.Sprintf("%.1f", p.AverageDays), strconv.Itoa(p.Invoices)}
	}
	return rows
}
