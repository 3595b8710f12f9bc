package driving

import (
	"context"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// AssistantService answers questions over the business data.
type AssistantService interface {
	// Ask ranks context for the question and starts the model stream.
	// The answer is produced lazily through AskResult.Stream.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error)

	// Retrieve returns the ranked context for a question without calling the model.
	Retrieve(ctx context.Context, req domain.AskRequest) ([]domain.CorpusDocument, error)

	// History returns recent answered questions, newest first.
	History(ctx context.Context, limit int) ([]domain.AskRecord, error)
}
