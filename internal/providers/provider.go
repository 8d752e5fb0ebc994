package providers

import (
	"context"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

// Fetcher pulls one source's current matches and returns them normalized.
// Implementations must be safe for concurrent use; overlapping refresh
// cycles may call Fetch while a previous call is still in flight.
type Fetcher interface {
	Source() matches.Source
	Fetch(ctx context.Context) ([]matches.Match, error)
}

// Closer is implemented by fetchers that hold pools or client connections.
type Closer interface {
	Close() error
}

// Close releases f when it implements Closer.
func Close(f Fetcher) error {
	if c, ok := f.(Closer); ok && c != nil {
		return c.Close()
	}
	return nil
}

// FetcherFunc adapts a function into a Fetcher for the given source.
type FetcherFunc struct {
	Name matches.Source
	Fn   func(ctx context.Context) ([]matches.Match, error)
}

func (f FetcherFunc) Source() matches.Source { return f.Name }

func (f FetcherFunc) Fetch(ctx context.Context) ([]matches.Match, error) {
	if f.Fn == nil {
		return nil, ErrProviderUnavailable
	}
	return f.Fn(ctx)
}
