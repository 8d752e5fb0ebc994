package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

var (
	// ErrFetchFailure marks network, HTTP and decode errors from a source.
	ErrFetchFailure = errors.New("source fetch failed")
	// ErrProviderUnavailable is returned when a fetcher is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// FetchFailure wraps err with the source name and marks it as ErrFetchFailure.
func FetchFailure(source matches.Source, err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, "%s: %s", source, msg), ErrFetchFailure)
}

// IsFetchFailure reports whether err carries the fetch failure mark.
func IsFetchFailure(err error) bool {
	return errors.Is(err, ErrFetchFailure)
}

// RateLimitError captures 429 responses from upstream sources.
type RateLimitError struct {
	Source     matches.Source
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "source rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// StatusError is a non-2xx, non-429 upstream response.
type StatusError struct {
	Source     matches.Source
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Source, e.StatusCode, e.Body)
}

// Retryable reports whether another attempt within the same cycle could
// succeed. Rate limits, client errors and caller cancellation are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError || statusErr.StatusCode == http.StatusRequestTimeout
	}
	return true
}
