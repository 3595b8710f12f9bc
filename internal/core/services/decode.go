package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// DecodeProjects maps a normalised project table to records.
// Missing columns leave the field empty.
func DecodeProjects(t *domain.Table) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		c := cellReader{t: t, row: i}
		out = append(out, domain.ProjectRecord{
			Project:        c.str(domain.ColProject),
			Customer:       c.str(domain.ColCustomer),
			Engineer:       c.str(domain.ColEngineer),
			Year:           c.int(domain.ColYear),
			OrderKey:       NormaliseOrderKey(t.Value(i, domain.ColOrderNumber)),
			Product:        c.str(domain.ColProduct),
			Qty:            c.float(domain.ColQty),
			Value:          c.float(domain.ColProjectValue),
			Balance:        c.float(domain.ColBalance),
			Status:         c.str(domain.ColStatus),
			Progress:       c.float(domain.ColProgress),
			Phrase:         c.str(domain.ColPhrase),
			ManufacturedBy: c.str(domain.ColManufacturedBy),
			PODate:         c.time(domain.ColPODate),
			EstimatedShip:  c.time(domain.ColEstimatedShip),
			ActualShip:     c.time(domain.ColActualShip),
			CreatedAt:      c.time(domain.ColCreatedAt),
		})
	}
	return out
}

// DecodeInvoices maps a normalised invoice table to records.
// The order key comes from "Sale order No.", or "Order number" when the
// table has no sale order column.
func DecodeInvoices(t *domain.Table) []domain.InvoiceRecord {
	keyCol := domain.ColSaleOrder
	if !t.HasColumn(keyCol) && t.HasColumn(domain.ColOrderNumber) {
		keyCol = domain.ColOrderNumber
	}

	out := make([]domain.InvoiceRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		c := cellReader{t: t, row: i}
		out = append(out, domain.InvoiceRecord{
			Year:            c.int(domain.ColYear),
			Engineer:        c.str(domain.ColEngineer),
			OrderKey:        NormaliseOrderKey(t.Value(i, keyCol)),
			Customer:        c.str(domain.ColCustomer),
			Project:         c.str(domain.ColProject),
			InvoiceValue:    c.float(domain.ColInvoiceValue),
			PlanDate:        c.time(domain.ColPlanDate),
			IssuedDate:      c.time(domain.ColIssuedDate),
			PaymentStatus:   c.str(domain.ColPaymentStatus),
			Currency:        c.str(domain.ColCurrency),
			DueDate:         c.time(domain.ColDueDate),
			ExpectedPayment: c.time(domain.ColExpectedPayment),
			ActualPayment:   c.time(domain.ColActualPayment),
			CreatedAt:       c.time(domain.ColCreatedAt),
		})
	}
	return out
}

// DecodeColumnMeta maps a Table_name / Field_name / Description table to
// glossary entries. Rows without a field name are skipped.
func DecodeColumnMeta(t *domain.Table) []domain.ColumnMeta {
	var out []domain.ColumnMeta
	for i := 0; i < t.Len(); i++ {
		c := cellReader{t: t, row: i}
		field := c.str(domain.ColMetaField)
		if field == "" {
			continue
		}
		out = append(out, domain.ColumnMeta{
			Table:       c.str(domain.ColMetaTable),
			Field:       field,
			Description: c.str(domain.ColMetaDescription),
		})
	}
	return out
}

type cellReader struct {
	t   *domain.Table
	row int
}

func (c cellReader) str(col string) string {
	return CellString(c.t.Value(c.row, col))
}

func (c cellReader) float(col string) *float64 {
	switch v := c.t.Value(c.row, col).(type) {
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		return &v
	case int64:
		f := float64(v)
		return &f
	case string:
		if f, ok := ParseNumber(v); ok {
			return &f
		}
	}
	return nil
}

func (c cellReader) int(col string) *int {
	f := c.float(col)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func (c cellReader) time(col string) *time.Time {
	switch v := c.t.Value(c.row, col).(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case string:
		if t, ok := ParseDate(v); ok {
			return &t
		}
	}
	return nil
}

// CellString renders a cell as display text. Missing cells are "".
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	default:
		return ""
	}
}
