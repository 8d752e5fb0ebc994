package customstore

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/domain/records"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/normalize"
	"github.com/zonera/scoreboard-service/internal/providers"
)

const (
	MatchesCollection = "matches"
	LeaguesCollection = "leagues"
	// DefaultLeagueLogo is used when a league document has no logo.
	DefaultLeagueLogo = "⚽"
	defaultLeagueKey  = "other"
)

// ErrWatchUnsupported is returned by Watch when the backend cannot push changes.
var ErrWatchUnsupported = errors.New("custom store does not support change notifications")

// Document is one raw document from a collection.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentSource reads whole collections from the backing store.
type DocumentSource interface {
	Documents(ctx context.Context, collection string) ([]Document, error)
}

// ChangeNotifier calls onChange whenever a collection changes. It blocks until
// ctx is done or the listener fails.
type ChangeNotifier interface {
	Watch(ctx context.Context, collection string, onChange func()) error
}

// Store is the custom-store Fetcher. It reads leagues and matches, joins
// them on leagueId and normalizes the result.
type Store struct {
	docs   DocumentSource
	logger *slog.Logger
}

func NewStore(docs DocumentSource, logger *slog.Logger) *Store {
	return &Store{docs: docs, logger: logger}
}

func (s *Store) Source() matches.Source { return matches.SourceCustom }

// Fetch reads both collections. Matches are returned grouped in league
// document order; matches whose league document is missing are dropped.
func (s *Store) Fetch(ctx context.Context) ([]matches.Match, error) {
	if s == nil || s.docs == nil {
		return nil, providers.ErrProviderUnavailable
	}
	leagueDocs, err := s.docs.Documents(ctx, LeaguesCollection)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceCustom, err, "read leagues")
	}
	matchDocs, err := s.docs.Documents(ctx, MatchesCollection)
	if err != nil {
		return nil, providers.FetchFailure(matches.SourceCustom, err, "read matches")
	}

	recs, dropped := Join(leagueDocs, matchDocs)
	if dropped > 0 {
		logging.Debug(logging.FromContext(ctx, s.logger), "custom matches without a known league dropped",
			slog.Int(logging.FieldCount, dropped),
		)
	}
	return normalize.All(recs), nil
}

// Watch forwards change notifications for the matches collection.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	n, ok := s.docs.(ChangeNotifier)
	if !ok {
		return ErrWatchUnsupported
	}
	return n.Watch(ctx, MatchesCollection, onChange)
}

// Close releases the backing store when it holds a connection.
func (s *Store) Close() error {
	if c, ok := s.docs.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Join attaches league documents to match documents by leagueId (falling
// back to "other"). It returns the joined records and how many matches had
// no league.
func Join(leagueDocs, matchDocs []Document) ([]records.CustomMatch, int) {
	order := make([]string, 0, len(leagueDocs))
	leagues := make(map[string]*records.CustomLeague, len(leagueDocs))
	for _, d := range leagueDocs {
		if _, dup := leagues[d.ID]; !dup {
			order = append(order, d.ID)
		}
		leagues[d.ID] = decodeLeague(d)
	}

	buckets := make(map[string][]records.CustomMatch, len(leagues))
	dropped := 0
	for _, d := range matchDocs {
		rec := decodeMatch(d)
		key := rec.LeagueID
		if key == "" {
			key = defaultLeagueKey
		}
		league, ok := leagues[key]
		if !ok {
			dropped++
			continue
		}
		rec.League = league
		buckets[key] = append(buckets[key], rec)
	}

	out := make([]records.CustomMatch, 0, len(matchDocs)-dropped)
	for _, id := range order {
		out = append(out, buckets[id]...)
	}
	return out, dropped
}
