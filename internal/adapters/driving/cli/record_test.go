package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func TestRecordProjectCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "record", "project",
		"--project", "Alpha", "--order", "1001", "--year", "2024",
		"--value", "1500", "--status", "Delayed", "--po-date", "2024-01-15")

	require.NoError(t, err)
	assert.Contains(t, out, `Added project "Alpha"`)
	require.NotNil(t, ts.records.project)
	rec := ts.records.project
	assert.Equal(t, "1001", rec.OrderKey)
	require.NotNil(t, rec.Year)
	assert.Equal(t, 2024, *rec.Year)
	require.NotNil(t, rec.Value)
	assert.Equal(t, 1500.0, *rec.Value)
	assert.Nil(t, rec.Qty)
	assert.Nil(t, rec.Progress)
	require.NotNil(t, rec.PODate)
	assert.Equal(t, 15, rec.PODate.Day())
}

func TestRecordProjectCmd_UnsetNumbersStayNil(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "record", "project", "--project", "A", "--order", "1", "--qty", "2")
	require.NoError(t, err)
	_, err = execute(t, "", "record", "project", "--project", "B", "--order", "2")
	require.NoError(t, err)

	assert.Nil(t, ts.records.project.Qty)
}

func TestRecordProjectCmd_BadDate(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "record", "project", "--project", "A", "--order", "1", "--actual-ship", "soon")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--actual-ship")
	assert.Nil(t, ts.records.project)
}

func TestRecordProjectCmd_ValidationError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.records.err = domain.ErrInvalidInput

	_, err := execute(t, "", "record", "project", "--project", "A")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordInvoiceCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "record", "invoice",
		"--order", "1001", "--customer", "Acme", "--value", "250.5",
		"--payment-status", "Invoiced", "--expected-payment", "2024-07-15")

	require.NoError(t, err)
	assert.Contains(t, out, "Added invoice for order 1001")
	rec := ts.records.invoice
	require.NotNil(t, rec)
	require.NotNil(t, rec.InvoiceValue)
	assert.Equal(t, 250.5, *rec.InvoiceValue)
	assert.Equal(t, "Invoiced", rec.PaymentStatus)
	require.NotNil(t, rec.ExpectedPayment)
	assert.Nil(t, rec.ActualPayment)
}

func TestRecordInvoiceCmd_AppendFailure(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.records.err = domain.ErrAppendFailure

	_, err := execute(t, "", "record", "invoice", "--order", "1001")

	assert.ErrorIs(t, err, domain.ErrAppendFailure)
}

func TestJoinStatuses(t *testing.T) {
	assert.Equal(t, "Planned, Invoiced, Paid, Overdue", joinStatuses(domain.AllPaymentStatuses()))
}
