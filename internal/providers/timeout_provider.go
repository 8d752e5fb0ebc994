package providers

import (
	"context"
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

// DefaultSourceTimeout bounds one source's contribution to a cycle.
const DefaultSourceTimeout = 10 * time.Second

type timeoutFetcher struct {
	inner   Fetcher
	timeout time.Duration
}

// NewTimeoutFetcher cancels a fetch that runs longer than timeout.
func NewTimeoutFetcher(inner Fetcher, timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &timeoutFetcher{inner: inner, timeout: timeout}
}

func (t *timeoutFetcher) Source() matches.Source {
	if t.inner == nil {
		return ""
	}
	return t.inner.Source()
}

func (t *timeoutFetcher) Fetch(ctx context.Context) ([]matches.Match, error) {
	if t.inner == nil {
		return nil, ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Fetch(ctx)
}

func (t *timeoutFetcher) Close() error {
	return Close(t.inner)
}
