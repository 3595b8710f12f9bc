package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// projectBody is the add-project form. Dates are YYYY-MM-DD.
type projectBody struct {
	Project        string   `json:"project"`
	Customer       string   `json:"customer"`
	Engineer       string   `json:"engineer"`
	Year           *int     `json:"year"`
	Order          string   `json:"order"`
	Product        string   `json:"product"`
	Qty            *float64 `json:"qty"`
	Value          *float64 `json:"value"`
	Balance        *float64 `json:"balance"`
	Status         string   `json:"status"`
	Progress       *float64 `json:"progress"`
	Phrase         string   `json:"phrase"`
	ManufacturedBy string   `json:"manufactured_by"`
	PODate         string   `json:"po_date"`
	EstimatedShip  string   `json:"estimated_ship"`
	ActualShip     string   `json:"actual_ship"`
}

// invoiceBody is the add-invoice form. Dates are YYYY-MM-DD.
type invoiceBody struct {
	Year            *int     `json:"year"`
	Engineer        string   `json:"engineer"`
	Order           string   `json:"order"`
	Customer        string   `json:"customer"`
	Project         string   `json:"project"`
	InvoiceValue    *float64 `json:"invoice_value"`
	PlanDate        string   `json:"plan_date"`
	IssuedDate      string   `json:"issued_date"`
	PaymentStatus   string   `json:"payment_status"`
	Currency        string   `json:"currency"`
	DueDate         string   `json:"due_date"`
	ExpectedPayment string   `json:"expected_payment"`
	ActualPayment   string   `json:"actual_payment"`
}

// POST /api/records/project
func (s *Server) handleAddProject(c *gin.Context) {
	var body projectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	var d dates
	rec := domain.ProjectRecord{
		Project:        body.Project,
		Customer:       body.Customer,
		Engineer:       body.Engineer,
		Year:           body.Year,
		OrderKey:       body.Order,
		Product:        body.Product,
		Qty:            body.Qty,
		Value:          body.Value,
		Balance:        body.Balance,
		Status:         body.Status,
		Progress:       body.Progress,
		Phrase:         body.Phrase,
		ManufacturedBy: body.ManufacturedBy,
		PODate:         d.parse("po_date", body.PODate),
		EstimatedShip:  d.parse("estimated_ship", body.EstimatedShip),
		ActualShip:     d.parse("actual_ship", body.ActualShip),
	}
	if d.err != nil {
		respondError(c, d.err)
		return
	}

	if err := s.ports.Records.AddProject(c.Request.Context(), rec); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"table": domain.TableProject})
}

// POST /api/records/invoice
func (s *Server) handleAddInvoice(c *gin.Context) {
	var body invoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	var d dates
	rec := domain.InvoiceRecord{
		Year:            body.Year,
		Engineer:        body.Engineer,
		OrderKey:        body.Order,
		Customer:        body.Customer,
		Project:         body.Project,
		InvoiceValue:    body.InvoiceValue,
		PlanDate:        d.parse("plan_date", body.PlanDate),
		IssuedDate:      d.parse("issued_date", body.IssuedDate),
		PaymentStatus:   body.PaymentStatus,
		Currency:        body.Currency,
		DueDate:         d.parse("due_date", body.DueDate),
		ExpectedPayment: d.parse("expected_payment", body.ExpectedPayment),
		ActualPayment:   d.parse("actual_payment", body.ActualPayment),
	}
	if d.err != nil {
		respondError(c, d.err)
		return
	}

	if err := s.ports.Records.AddInvoice(c.Request.Context(), rec); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"table": domain.TableInvoice})
}

// dates parses optional form dates, keeping the first failure.
type dates struct {
	err error
}

func (d *dates) parse(field, raw string) *time.Time {
	if raw == "" || d.err != nil {
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		d.err = fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, field)
		return nil
	}
	return &t
}
