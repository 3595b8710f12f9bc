package source

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

var _ driven.TabularSource = unavailable{}

// unavailable stands in for a source that could not be opened so commands
// that do not read tables keep working.
type unavailable struct {
	cause error
}

// Unavailable returns a source whose reads and writes fail with
// domain.ErrSourceUnavailable wrapping cause.
func Unavailable(cause error) driven.TabularSource {
	return unavailable{cause: cause}
}

func (u unavailable) err() error {
	return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, u.cause)
}

func (u unavailable) FetchProjects(context.Context) (*domain.Table, error) {
	return nil, u.err()
}

func (u unavailable) FetchInvoices(context.Context) (*domain.Table, error) {
	return nil, u.err()
}

func (u unavailable) AppendRow(context.Context, domain.TableName, domain.Row) error {
	return u.err()
}

func (u unavailable) Name() string { return "unavailable" }

func (u unavailable) Close() error { return nil }
