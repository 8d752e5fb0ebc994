package customstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/providers"
)

type fakeDocs struct {
	collections map[string][]Document
	errs        map[string]error
	changes     int
	closed      atomic.Bool
}

func (f *fakeDocs) Documents(ctx context.Context, collection string) ([]Document, error) {
	if err := f.errs[collection]; err != nil {
		return nil, err
	}
	return f.collections[collection], nil
}

func (f *fakeDocs) Watch(ctx context.Context, collection string, onChange func()) error {
	for i := 0; i < f.changes; i++ {
		onChange()
	}
	return nil
}

func (f *fakeDocs) Close() error {
	f.closed.Store(true)
	return nil
}

type readOnlyDocs struct{}

func (readOnlyDocs) Documents(ctx context.Context, collection string) ([]Document, error) {
	return nil, nil
}

func sampleDocs() *fakeDocs {
	return &fakeDocs{collections: map[string][]Document{
		LeaguesCollection: {
			{ID: "laliga", Data: map[string]any{"name": "La Liga", "country": "Spain", "logo": "https://l/laliga.png"}},
			{ID: "pl", Data: map[string]any{"name": "Premier League", "country": "England"}},
			{ID: "empty", Data: map[string]any{"name": "Nobody Plays Here"}},
		},
		MatchesCollection: {
			{ID: "m1", Data: map[string]any{"homeTeam": "Man City", "awayTeam": "Arsenal", "homeScore": int64(2), "awayScore": int64(2), "status": "live", "time": "15:00", "leagueId": "pl"}},
			{ID: "m2", Data: map[string]any{"home": "Real Madrid", "away_name": "Girona", "home_score": float64(3), "away_score": "1", "status": "finished", "leagueId": "laliga"}},
			{ID: "m3", Data: map[string]any{"homeTeam": "Ghost", "awayTeam": "Town", "status": "upcoming", "leagueId": "serie-a"}},
			{ID: "m4", Data: map[string]any{"homeTeam": "Man United", "awayTeam": "Tottenham", "status": "upcoming", "leagueId": "pl", "kickoff": time.Date(2025, 3, 1, 17, 30, 0, 0, time.UTC)}},
		},
	}}
}

func TestFetchJoinsLeaguesAndDropsUnknown(t *testing.T) {
	s := NewStore(sampleDocs(), nil)

	got, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	// League document order, then match document order within a league.
	assert.Equal(t, []string{"custom-m2", "custom-m1", "custom-m4"}, []string{got[0].ID, got[1].ID, got[2].ID})

	assert.Equal(t, "Real Madrid", got[0].HomeTeam)
	assert.Equal(t, "Girona", got[0].AwayTeam)
	require.NotNil(t, got[0].HomeScore)
	require.NotNil(t, got[0].AwayScore)
	assert.Equal(t, 3, *got[0].HomeScore)
	assert.Equal(t, 1, *got[0].AwayScore)
	assert.Equal(t, "https://l/laliga.png", got[0].League.Logo)

	assert.Equal(t, matches.League{ID: "pl", Name: "Premier League", Country: "England", Logo: DefaultLeagueLogo}, got[1].League)
	assert.Equal(t, matches.StatusLive, got[1].Status)
	assert.Equal(t, "15:00", got[1].Time)

	require.NotNil(t, got[2].Kickoff)
	assert.True(t, got[2].Kickoff.Equal(time.Date(2025, 3, 1, 17, 30, 0, 0, time.UTC)))
	for _, m := range got {
		assert.Equal(t, matches.SourceCustom, m.Source)
	}
}

func TestJoinFallsBackToOtherLeague(t *testing.T) {
	leagues := []Document{{ID: "other", Data: map[string]any{"name": "Other"}}}
	ms := []Document{{ID: "a", Data: map[string]any{"homeTeam": "A", "awayTeam": "B"}}}

	recs, dropped := Join(leagues, ms)
	require.Len(t, recs, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "other", recs[0].League.ID)
}

func TestJoinCountsDropped(t *testing.T) {
	recs, dropped := Join(nil, []Document{{ID: "a"}, {ID: "b", Data: map[string]any{"leagueId": "x"}}})
	assert.Empty(t, recs)
	assert.Equal(t, 2, dropped)
}

func TestFetchErrorsAreFetchFailures(t *testing.T) {
	docs := sampleDocs()
	docs.errs = map[string]error{MatchesCollection: errors.New("permission denied")}

	_, err := NewStore(docs, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, providers.IsFetchFailure(err))
	assert.Contains(t, err.Error(), "read matches")
}

func TestFetchWithoutBackend(t *testing.T) {
	_, err := NewStore(nil, nil).Fetch(context.Background())
	assert.ErrorIs(t, err, providers.ErrProviderUnavailable)
}

func TestWatchForwardsChanges(t *testing.T) {
	docs := sampleDocs()
	docs.changes = 2
	s := NewStore(docs, nil)

	calls := 0
	require.NoError(t, s.Watch(context.Background(), func() { calls++ }))
	assert.Equal(t, 2, calls)

	require.NoError(t, s.Close())
	assert.True(t, docs.closed.Load())
}

func TestWatchUnsupported(t *testing.T) {
	s := NewStore(readOnlyDocs{}, nil)
	assert.ErrorIs(t, s.Watch(context.Background(), func() {}), ErrWatchUnsupported)
	assert.NoError(t, s.Close())
}

func TestDecodeNumericVariants(t *testing.T) {
	data := map[string]any{
		"a": 4,
		"b": int64(5),
		"c": float64(6),
		"d": 2.5,
		"e": " 7 ",
		"f": "x",
		"g": true,
	}
	want := map[string]*int{"a": intOf(4), "b": intOf(5), "c": intOf(6), "d": nil, "e": intOf(7), "f": nil, "g": nil, "missing": nil}
	for key, w := range want {
		assert.Equal(t, w, intPtr(data, key), key)
	}
}

func TestDecodeMatchReadsNestedScore(t *testing.T) {
	rec := decodeMatch(Document{ID: "m1", Data: map[string]any{
		"homeTeam": "Brighton",
		"awayTeam": "Fulham",
		"status":   "live",
		"score":    map[string]any{"home": int64(1), "away": float64(0)},
	}})
	assert.Equal(t, intOf(1), rec.ScoreHome)
	assert.Equal(t, intOf(0), rec.ScoreAway)
	assert.Nil(t, rec.HomeScore)

	flat := decodeMatch(Document{ID: "m2", Data: map[string]any{"score": "1-0"}})
	assert.Nil(t, flat.ScoreHome)
}

func TestInstantPrefersFirstPresentKey(t *testing.T) {
	data := map[string]any{"date": "2025-01-01T10:00:00Z", "utcDate": "2025-02-02T10:00:00Z"}
	assert.Equal(t, "2025-01-01T10:00:00Z", instant(data, "kickoff", "date", "utcDate"))
	assert.Equal(t, "", instant(map[string]any{"kickoff": time.Time{}}, "kickoff"))
}

func intOf(v int) *int { return &v }
