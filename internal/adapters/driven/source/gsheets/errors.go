package gsheets

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// Sheets API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("gsheets: unauthorised (invalid credentials)")

	// ErrForbidden indicates the service account cannot open the spreadsheet.
	ErrForbidden = errors.New("gsheets: forbidden (share the spreadsheet with the service account)")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("gsheets: rate limit exceeded")
)

// IsRateLimited returns true if the error is a 429 response.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return statusOf(err) == http.StatusTooManyRequests
}

// IsMissingRange returns true if the error means the sheet or range does not
// exist. The API reports unknown sheet names as 400 "Unable to parse range".
func IsMissingRange(err error) bool {
	code := statusOf(err)
	return code == http.StatusBadRequest || code == http.StatusNotFound
}

// WrapError converts a Sheets API error into a source error.
// Every failure is domain.ErrSourceUnavailable; auth and quota failures are
// also matched by the package errors.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var specific error
	switch statusOf(err) {
	case http.StatusUnauthorized:
		specific = ErrUnauthorized
	case http.StatusForbidden:
		specific = ErrForbidden
	case http.StatusTooManyRequests:
		specific = ErrRateLimited
	}
	if specific != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrSourceUnavailable, specific)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrSourceUnavailable, err)
}

func statusOf(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
