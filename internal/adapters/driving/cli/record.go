package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append project and invoice rows",
	Long: `Append a row to the project or invoice table of the configured source.
Loaded dashboards are refreshed on the next command.`,
}

var recordProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Append a project row",
	Long: `Append a project row. --project and --order are required.

Statuses: ` + joinStatuses(domain.AllProjectStatuses()) + `
Dates are YYYY-MM-DD. Progress is a fraction between 0 and 1.`,
	Args: cobra.NoArgs,
	RunE: runRecordProject,
}

var recordInvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Append an invoice row",
	Long: `Append an invoice row. --order is required.

Payment statuses: ` + joinStatuses(domain.AllPaymentStatuses()) + `
Dates are YYYY-MM-DD.`,
	Args: cobra.NoArgs,
	RunE: runRecordInvoice,
}

func init() {
	pf := recordProjectCmd.Flags()
	pf.String("project", "", "project name")
	pf.String("customer", "", "customer")
	pf.String("engineer", "", "project engineer")
	pf.Int("year", 0, "project year")
	pf.String("order", "", "order number")
	pf.String("product", "", "product")
	pf.Float64("qty", 0, "quantity")
	pf.Float64("value", 0, "project value")
	pf.Float64("balance", 0, "outstanding balance")
	pf.String("status", "", "project status")
	pf.Float64("progress", 0, "progress between 0 and 1")
	pf.String("phrase", "", "project phrase")
	pf.String("manufactured-by", "", "manufacturer")
	pf.String("po-date", "", "purchase order date")
	pf.String("estimated-ship", "", "estimated shipping date")
	pf.String("actual-ship", "", "actual shipping date")

	inf := recordInvoiceCmd.Flags()
	inf.Int("year", 0, "project year")
	inf.String("engineer", "", "project engineer")
	inf.String("order", "", "sale order number")
	inf.String("customer", "", "customer")
	inf.String("project", "", "project name")
	inf.Float64("value", 0, "invoice value")
	inf.String("plan-date", "", "planned invoice date")
	inf.String("issued-date", "", "invoice issue date")
	inf.String("payment-status", "", "payment status")
	inf.String("currency", "", "currency")
	inf.String("due-date", "", "due date")
	inf.String("expected-payment", "", "expected payment date")
	inf.String("actual-payment", "", "actual payment date")

	recordCmd.AddCommand(recordProjectCmd)
	recordCmd.AddCommand(recordInvoiceCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordProject(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	fl := formFlags{set: cmd.Flags()}
	rec := domain.ProjectRecord{
		Project:        fl.str("project"),
		Customer:       fl.str("customer"),
		Engineer:       fl.str("engineer"),
		Year:           fl.int("year"),
		OrderKey:       fl.str("order"),
		Product:        fl.str("product"),
		Qty:            fl.float("qty"),
		Value:          fl.float("value"),
		Balance:        fl.float("balance"),
		Status:         fl.str("status"),
		Progress:       fl.float("progress"),
		Phrase:         fl.str("phrase"),
		ManufacturedBy: fl.str("manufactured-by"),
		PODate:         fl.date("po-date"),
		EstimatedShip:  fl.date("estimated-ship"),
		ActualShip:     fl.date("actual-ship"),
	}
	if fl.err != nil {
		return fl.err
	}

	if err := recordService.AddProject(cmd.Context(), rec); err != nil {
		return fmt.Errorf("add project failed: %w", err)
	}
	cmd.Println(theme.Success.Render(fmt.Sprintf("Added project %q (order %s).", rec.Project, rec.OrderKey)))
	return nil
}

func runRecordInvoice(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	fl := formFlags{set: cmd.Flags()}
	rec := domain.InvoiceRecord{
		Year:            fl.int("year"),
		Engineer:        fl.str("engineer"),
		OrderKey:        fl.str("order"),
		Customer:        fl.str("customer"),
		Project:         fl.str("project"),
		InvoiceValue:    fl.float("value"),
		PlanDate:        fl.date("plan-date"),
		IssuedDate:      fl.date("issued-date"),
		PaymentStatus:   fl.str("payment-status"),
		Currency:        fl.str("currency"),
		DueDate:         fl.date("due-date"),
		ExpectedPayment: fl.date("expected-payment"),
		ActualPayment:   fl.date("actual-payment"),
	}
	if fl.err != nil {
		return fl.err
	}

	if err := recordService.AddInvoice(cmd.Context(), rec); err != nil {
		return fmt.Errorf("add invoice failed: %w", err)
	}
	cmd.Println(theme.Success.Render(fmt.Sprintf("Added invoice for order %s.", rec.OrderKey)))
	return nil
}

// formFlags reads optional form fields. Unset numeric and date flags are nil.
type formFlags struct {
	set *pflag.FlagSet
	err error
}

func (f *formFlags) str(name string) string {
	v, err := f.set.GetString(name)
	f.keep(err)
	return strings.TrimSpace(v)
}

func (f *formFlags) int(name string) *int {
	if !f.set.Changed(name) {
		return nil
	}
	v, err := f.set.GetInt(name)
	f.keep(err)
	return &v
}

func (f *formFlags) float(name string) *float64 {
	if !f.set.Changed(name) {
		return nil
	}
	v, err := f.set.GetFloat64(name)
	f.keep(err)
	return &v
}

func (f *formFlags) date(name string) *time.Time {
	raw := f.str(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		f.keep(fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, raw))
		return nil
	}
	return &t
}

func (f *formFlags) keep(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

func joinStatuses[S ~string](in []S) string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return strings.Join(out, ", ")
}
