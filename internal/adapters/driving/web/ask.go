package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

const defaultHistoryLimit = 20

type askBody struct {
	Question         string `json:"question"`
	Domain           string `json:"domain"`
	TopK             int    `json:"top_k"`
	IncludeKnowledge bool   `json:"include_knowledge"`
	IncludeWorkflow  *bool  `json:"include_workflow"`
}

func (b askBody) request() (domain.AskRequest, error) {
	d := domain.CorpusDomain(strings.ToLower(b.Domain))
	if d == "" {
		d = domain.CorpusDomainBoth
	}
	if !d.IsValid() {
		return domain.AskRequest{}, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, b.Domain)
	}
	if b.TopK < 0 {
		return domain.AskRequest{}, fmt.Errorf("%w: top_k must not be negative", domain.ErrInvalidInput)
	}
	return domain.AskRequest{
		Question:         b.Question,
		Domain:           d,
		TopK:             b.TopK,
		IncludeKnowledge: b.IncludeKnowledge,
		IncludeWorkflow:  b.IncludeWorkflow == nil || *b.IncludeWorkflow,
	}, nil
}

func bindAsk(c *gin.Context) (domain.AskRequest, error) {
	var body askBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return domain.AskRequest{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return body.request()
}

// POST /api/ask
//
// Streams the answer as text/plain, or as server-sent events when the
// client accepts text/event-stream. Errors after the first fragment are
// reported in-band.
func (s *Server) handleAsk(c *gin.Context) {
	req, err := bindAsk(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.ports.Assistant.Ask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Ask-ID", result.ID)
	c.Header("X-Model", result.Model)

	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		s.streamEvents(c, result)
		return
	}
	s.streamText(c, result)
}

func (s *Server) streamText(c *gin.Context, result *domain.AskResult) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	for frag, err := range result.Stream {
		if err != nil {
			fmt.Fprintf(c.Writer, "\n\n[error] %v\n", err)
			c.Writer.Flush()
			return
		}
		if _, werr := c.Writer.WriteString(frag); werr != nil {
			return
		}
		c.Writer.Flush()
	}
}

func (s *Server) streamEvents(c *gin.Context, result *domain.AskResult) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	c.SSEvent("context", result.Context)
	c.Writer.Flush()

	for frag, err := range result.Stream {
		if err != nil {
			c.SSEvent("error", err.Error())
			c.Writer.Flush()
			return
		}
		c.SSEvent("message", frag)
		c.Writer.Flush()
	}
	c.SSEvent("done", gin.H{"id": result.ID, "model": result.Model})
	c.Writer.Flush()
}

// POST /api/ask/context
func (s *Server) handleAskContext(c *gin.Context) {
	req, err := bindAsk(c)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := s.ports.Assistant.Retrieve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []domain.CorpusDocument{}
	}
	respondData(c, http.StatusOK, docs)
}

type historyEntry struct {
	ID        string                  `json:"id"`
	Question  string                  `json:"question"`
	Answer    string                  `json:"answer"`
	Domain    domain.CorpusDomain     `json:"domain"`
	Model     string                  `json:"model"`
	Context   []domain.CorpusDocument `json:"context"`
	CreatedAt string                  `json:"created_at"`
}

// GET /api/history?limit=20
func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, fmt.Errorf("%w: limit must be a positive number", domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	records, err := s.ports.Assistant.History(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondData(c, http.StatusOK, []historyEntry{})
			return
		}
		respondError(c, err)
		return
	}

	out := make([]historyEntry, len(records))
	for i, r := range records {
		out[i] = historyEntry{
			ID:        r.ID,
			Question:  r.Question,
			Answer:    r.Answer,
			Domain:    r.Domain,
			Model:     r.Model,
			Context:   r.Context,
			CreatedAt: r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	respondData(c, http.StatusOK, out)
}

// GET /api/quick-prompts
func (s *Server) handleQuickPrompts(c *gin.Context) {
	prompts := s.ports.QuickPrompts
	if len(prompts) == 0 {
		prompts = domain.QuickPrompts
	}
	respondData(c, http.StatusOK, prompts)
}
