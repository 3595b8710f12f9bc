package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/logger"
)

// DefaultSystemPrompt is the assistant's system prompt.
// %s is replaced by the workflow description.
const DefaultSystemPrompt = "You are an expert in project management (PMP/PMBOK) and an assistant for project/invoice data. " +
	"Ground answers in the provided context and PMBOK best practices: prioritize project value, timelines, risk, and invoice status. " +
	"Always consider this project workflow: %s " +
	"Answer with enough detail (3-5 sentences) using only the provided context; include key numbers/status when available. " +
	"If unsure, say you do not have that information. " +
	"ตอบเป็นภาษาไทยถ้าคำถามเป็นภาษาไทย และตอบเป็นอังกฤษถ้าคำถามเป็นอังกฤษ."

// DefaultUserPrompt frames the context block and the question.
const DefaultUserPrompt = "Context:\n%s\n\nQuestion: %s"

// PromptBuilder assembles model prompts, preferring templates from a PromptStore.
type PromptBuilder struct {
	store    driven.PromptStore
	workflow string
}

// NewPromptBuilder creates a prompt builder. store may be nil.
func NewPromptBuilder(store driven.PromptStore, workflow string) *PromptBuilder {
	if workflow == "" {
		workflow = domain.DefaultWorkflow
	}
	return &PromptBuilder{store: store, workflow: workflow}
}

// Build returns the prompt for a question and its ranked context.
// A non-empty glossary is appended to the system prompt.
func (b *PromptBuilder) Build(question string, docs []domain.CorpusDocument, glossary []domain.ColumnMeta) domain.Prompt {
	system := fmt.Sprintf(b.template(driven.PromptSystem, DefaultSystemPrompt), b.workflow)
	if g := Glossary(glossary); g != "" {
		system += "\n\n" + g
	}
	return domain.Prompt{
		System: system,
		User:   fmt.Sprintf(b.template(driven.PromptUser, DefaultUserPrompt), ContextBlock(docs), question),
	}
}

func (b *PromptBuilder) template(name, fallback string) string {
	if b.store == nil {
		return fallback
	}
	tmpl, err := b.store.Load(name)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Debug("prompt %s: using built-in template: %v", name, err)
		}
		return fallback
	}
	return tmpl
}

// ContextBlock renders documents one per line as "- (source) text".
func ContextBlock(docs []domain.CorpusDocument) string {
	lines := make([]string, len(docs))
	for i, d := range docs {
		lines[i] = fmt.Sprintf("- (%s) %s", d.Source, d.Text)
	}
	return strings.Join(lines, "\n")
}

// Glossary renders column descriptions for the system prompt.
// Returns "" when there is nothing to describe.
func Glossary(meta []domain.ColumnMeta) string {
	var b strings.Builder
	for _, m := range meta {
		if m.Description == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("Field glossary:")
		}
		b.WriteString("\n- ")
		if m.Table != "" {
			b.WriteString(m.Table)
			b.WriteString(".")
		}
		b.WriteString(m.Field)
		b.WriteString(": ")
		b.WriteString(m.Description)
	}
	return b.String()
}
