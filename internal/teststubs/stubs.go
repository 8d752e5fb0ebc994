package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

// StubFetcher is a test double for providers.Fetcher.
type StubFetcher struct {
	Name    matches.Source
	Matches []matches.Match
	Err     error
	// Failures makes the first N calls return Err; later calls succeed.
	Failures int32
	// Block, when set, holds Fetch until it is closed or ctx is done.
	Block  chan struct{}
	Notify chan struct{}
	Calls  atomic.Int32
	Closed atomic.Bool

	notifyOnce sync.Once
}

func (s *StubFetcher) Source() matches.Source { return s.Name }

// Fetch returns configured matches and error while tracking calls.
func (s *StubFetcher) Fetch(ctx context.Context) ([]matches.Match, error) {
	n := s.Calls.Add(1)
	if s.Notify != nil {
		s.notifyOnce.Do(func() { close(s.Notify) })
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil && (s.Failures == 0 || n <= s.Failures) {
		return nil, s.Err
	}
	return s.Matches, nil
}

// Close records that the fetcher was released.
func (s *StubFetcher) Close() error {
	s.Closed.Store(true)
	return nil
}

// Match returns a minimal match for the given source and league.
func Match(id string, source matches.Source, status matches.Status, league string) matches.Match {
	return matches.Match{
		ID:       id,
		HomeTeam: "Home " + id,
		AwayTeam: "Away " + id,
		Status:   status,
		League:   matches.League{ID: league, Name: league},
		Source:   source,
	}
}
