package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.FixedZone("ICT", 7*3600))

func TestEncodeProject(t *testing.T) {
	row := EncodeProject(domain.ProjectRecord{
		Project:  "Alpha",
		Year:     intp(2025),
		OrderKey: "900",
		Value:    f64(1000),
		Progress: nil,
	}, fixedNow)

	assert.Equal(t, "Alpha", row[domain.ColProject])
	assert.Equal(t, int64(2025), row[domain.ColYear])
	assert.Equal(t, "900", row[domain.ColOrderNumber])
	assert.Equal(t, 1000.0, row[domain.ColProjectValue])
	assert.Nil(t, row[domain.ColProgress])
	assert.Equal(t, "2025-06-01T02:30:00Z", row[domain.ColCreatedAt])
}

func TestEncodeInvoice(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := EncodeInvoice(domain.InvoiceRecord{
		OrderKey:   "900",
		PlanDate:   date(2025, time.July, 15),
		IssuedDate: nil,
		CreatedAt:  &created,
	}, fixedNow)

	assert.Equal(t, "900", row[domain.ColSaleOrder])
	assert.Equal(t, "2025-07-15", row[domain.ColPlanDate])
	assert.Nil(t, row[domain.ColIssuedDate])
	assert.Equal(t, "2024-01-01T00:00:00Z", row[domain.ColCreatedAt])
}

func TestEncodeDecode_OrderKeyRoundTrip(t *testing.T) {
	row := EncodeInvoice(domain.InvoiceRecord{OrderKey: "500"}, fixedNow)
	table := &domain.Table{}
	table.Append(row)

	got := DecodeInvoices(table)

	assert.Equal(t, "500", got[0].OrderKey)
	assert.Equal(t, "500", NormaliseOrderKey(500.0))
}
