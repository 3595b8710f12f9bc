package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// LLMService provides language model operations for the assistant.
// This is an optional service - when nil, asking fails with ErrModelUnavailable.
//
// Implementations may include:
//   - OpenRouter and other OpenAI-compatible APIs
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Stream sends the prompt and returns the answer as a sequence of text
	// fragments. The request is made before Stream returns, so connection and
	// status failures surface here. The response body is read as the sequence
	// is pulled and closed when iteration stops. The sequence yields at most
	// one error, after which it ends.
	Stream(ctx context.Context, prompt domain.Prompt, opts ChatOptions) (iter.Seq2[string, error], error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Messages converts a prompt to chat messages, omitting an empty system prompt.
func Messages(p domain.Prompt) []ChatMessage {
	msgs := make([]ChatMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, ChatMessage{Role: "system", Content: p.System})
	}
	return append(msgs, ChatMessage{Role: "user", Content: p.User})
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
