package services

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
	"github.com/custodia-labs/pidash/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// AssistantService answers questions with ranked business context.
type AssistantService struct {
	loader    *Loader
	llm       driven.LLMService
	knowledge driven.KnowledgeSource
	prompts   *PromptBuilder
	history   driven.HistoryStore
	opts      driven.ChatOptions
	now       func() time.Time
}

// NewAssistantService creates an assistant. llm, knowledge, prompts and
// history may be nil.
func NewAssistantService(
	loader *Loader,
	llm driven.LLMService,
	knowledge driven.KnowledgeSource,
	prompts driven.PromptStore,
	history driven.HistoryStore,
) *AssistantService {
	return &AssistantService{
		loader:    loader,
		llm:       llm,
		knowledge: knowledge,
		prompts:   NewPromptBuilder(prompts, domain.DefaultWorkflow),
		history:   history,
		now:       time.Now,
	}
}

// SetChatOptions overrides the options passed to the model.
func (s *AssistantService) SetChatOptions(opts driven.ChatOptions) {
	s.opts = opts
}

// Retrieve returns the ranked context for a question.
func (s *AssistantService) Retrieve(ctx context.Context, req domain.AskRequest) ([]domain.CorpusDocument, error) {
	docs, _, err := s.retrieve(ctx, &req)
	return docs, err
}

// Ask ranks context for the question and starts the model stream.
// The answer is recorded in history once the stream is fully consumed.
func (s *AssistantService) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	if s.llm == nil {
		return nil, domain.ErrModelUnavailable
	}

	docs, snap, err := s.retrieve(ctx, &req)
	if err != nil {
		return nil, err
	}

	prompt := s.prompts.Build(req.Question, docs, snap.ColumnMeta)
	logger.Debug("ask: %d context documents, model %s", len(docs), s.llm.ModelName())

	stream, err := s.llm.Stream(ctx, prompt, s.opts)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", s.llm.ModelName(), err)
	}

	result := &domain.AskResult{
		ID:       uuid.New().String(),
		Question: req.Question,
		Context:  docs,
		Model:    s.llm.ModelName(),
	}
	result.Stream = s.recorded(ctx, result, req.Domain, stream)
	return result, nil
}

// History returns recent answered questions, newest first.
func (s *AssistantService) History(ctx context.Context, limit int) ([]domain.AskRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, limit)
}

func (s *AssistantService) retrieve(ctx context.Context, req *domain.AskRequest) ([]domain.CorpusDocument, *domain.Snapshot, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return nil, nil, fmt.Errorf("question is empty: %w", domain.ErrInvalidInput)
	}
	if req.Domain == "" {
		req.Domain = domain.CorpusDomainBoth
	}
	if !req.Domain.IsValid() {
		return nil, nil, fmt.Errorf("unknown domain %q: %w", req.Domain, domain.ErrInvalidInput)
	}
	if req.TopK <= 0 {
		req.TopK = domain.DefaultTopK
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	var chunks []string
	if req.IncludeKnowledge && s.knowledge != nil {
		chunks, err = s.knowledge.Chunks(ctx)
		if err != nil {
			logger.Warn("ask: knowledge unavailable: %v", err)
			chunks = nil
		}
	}

	var joined []domain.JoinedRecord
	if req.Domain.IncludesInvoices() {
		joined = JoinInvoices(snap.Invoices, snap.Projects)
	}

	corpus := BuildCorpus(domain.CorpusInput{
		Domain:           req.Domain,
		Projects:         snap.Projects,
		Invoices:         joined,
		Knowledge:        chunks,
		IncludeKnowledge: req.IncludeKnowledge,
		IncludeWorkflow:  req.IncludeWorkflow,
	})
	return RankDocuments(req.Question, corpus, req.TopK), snap, nil
}

// recorded passes fragments through and saves the exchange after the
// stream ends without error.
func (s *AssistantService) recorded(
	ctx context.Context,
	result *domain.AskResult,
	corpusDomain domain.CorpusDomain,
	stream iter.Seq2[string, error],
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var answer strings.Builder
		for frag, err := range stream {
			if err != nil {
				yield("", err)
				return
			}
			answer.WriteString(frag)
			if !yield(frag, nil) {
				return
			}
		}
		if s.history == nil {
			return
		}
		rec := domain.AskRecord{
			ID:        result.ID,
			Question:  result.Question,
			Answer:    answer.String(),
			Domain:    corpusDomain,
			Model:     result.Model,
			Context:   result.Context,
			CreatedAt: s.now().UTC(),
		}
		if err := s.history.Save(context.WithoutCancel(ctx), rec); err != nil {
			logger.Warn("ask: history not saved: %v", err)
		}
	}
}

// CollectAnswer drains a result's stream into a single string.
func CollectAnswer(result *domain.AskResult) (string, error) {
	var b strings.Builder
	for frag, err := range result.Stream {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}
