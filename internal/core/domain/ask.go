package domain

import (
	"iter"
	"time"
)

// Prompt is the request sent to a language model.
type Prompt struct {
	System string
	User   string
}

// AskRequest is a question for the assistant.
type AskRequest struct {
	Question string
	Domain   CorpusDomain

	// TopK is the context size. Zero means DefaultTopK.
	TopK int

	IncludeKnowledge bool
	IncludeWorkflow  bool
}

// AskResult carries the ranked context and the lazily streamed answer.
// Stream can be consumed once.
type AskResult struct {
	ID       string
	Question string
	Context  []CorpusDocument
	Model    string
	Stream   iter.Seq2[string, error]
}

// AskRecord is a completed exchange kept in history.
type AskRecord struct {
	ID        string
	Question  string
	Answer    string
	Domain    CorpusDomain
	Model     string
	Context   []CorpusDocument
	CreatedAt time.Time
}
