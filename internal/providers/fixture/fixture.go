package fixture

import (
	"context"
	"time"

	"github.com/zonera/scoreboard-service/internal/providers/customstore"
)

const leagueID = "premier-league"

// Source serves a fixed Premier League round as custom-store documents.
// It is the default backend when no Firestore project is configured.
type Source struct {
	now func() time.Time
}

// New creates a fixture source with a time source.
func New() *Source {
	return &Source{now: time.Now}
}

// Documents returns the sample collections. Kickoff times fall on the
// current UTC date so date filtering shows them under "today".
func (s *Source) Documents(_ context.Context, collection string) ([]customstore.Document, error) {
	switch collection {
	case customstore.LeaguesCollection:
		return []customstore.Document{
			{ID: leagueID, Data: map[string]any{"name": "Premier League", "country": "England", "logo": "🏴"}},
		}, nil
	case customstore.MatchesCollection:
		return s.matches(), nil
	default:
		return nil, nil
	}
}

func (s *Source) matches() []customstore.Document {
	day := s.now().UTC()
	at := func(hour, minute int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	}
	return []customstore.Document{
		{ID: "1", Data: map[string]any{
			"homeTeam": "Man City", "awayTeam": "Arsenal",
			"homeScore": int64(2), "awayScore": int64(2),
			"status": "live", "time": "15:00", "kickoff": at(15, 0), "leagueId": leagueID,
		}},
		{ID: "2", Data: map[string]any{
			"homeTeam": "Liverpool", "awayTeam": "Chelsea",
			"homeScore": int64(1), "awayScore": int64(0),
			"status": "finished", "time": "12:30", "kickoff": at(12, 30), "leagueId": leagueID,
		}},
		{ID: "3", Data: map[string]any{
			"homeTeam": "Man United", "awayTeam": "Tottenham",
			"homeScore": nil, "awayScore": nil,
			"status": "upcoming", "time": "17:30", "kickoff": at(17, 30), "leagueId": leagueID,
		}},
	}
}
