package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/projects?engineer=&project=&year=&status=&phrase=&customer=
func (s *Server) handleProjects(c *gin.Context) {
	years, err := queryInts(c, "year")
	if err != nil {
		respondError(c, err)
		return
	}

	dash, err := s.ports.Dashboard.ProjectDashboard(c.Request.Context(), domain.ProjectFilter{
		Engineers: queryList(c, "engineer"),
		Projects:  queryList(c, "project"),
		Years:     years,
		Statuses:  queryList(c, "status"),
		Phrases:   queryList(c, "phrase"),
		Customers: queryList(c, "customer"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dash)
}

// GET /api/invoices?engineer=&project=&customer=&year=&payment_status=
func (s *Server) handleInvoices(c *gin.Context) {
	years, err := queryInts(c, "year")
	if err != nil {
		respondError(c, err)
		return
	}

	dash, err := s.ports.Dashboard.InvoiceDashboard(c.Request.Context(), domain.InvoiceFilter{
		Engineers:       queryList(c, "engineer"),
		Projects:        queryList(c, "project"),
		Customers:       queryList(c, "customer"),
		Years:           years,
		PaymentStatuses: queryList(c, "payment_status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dash)
}

// GET /api/crm?payment_status=&customer=&today=YYYY-MM-DD
func (s *Server) handleCRM(c *gin.Context) {
	filter := domain.CRMFilter{
		PaymentStatuses: queryList(c, "payment_status"),
		Customers:       queryList(c, "customer"),
	}
	if raw := c.Query("today"); raw != "" {
		today, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: today must be YYYY-MM-DD", domain.ErrInvalidInput))
			return
		}
		filter.Today = today
	}

	dash, err := s.ports.Dashboard.CRMDashboard(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dash)
}

// queryList accepts both repeated keys and comma-separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInts(c *gin.Context, key string) ([]int, error) {
	raw := queryList(c, key)
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, v)
		}
		out = append(out, n)
	}
	return out, nil
}
