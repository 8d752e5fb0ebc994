package testutil

import (
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/view"
)

// SampleLeague returns a league fixture with the provided id.
func SampleLeague(id string) matches.League {
	return matches.League{ID: id, Name: "League " + id, Country: "England", Logo: "⚽"}
}

// SampleMatch returns a valid match fixture. Live and finished matches get
// a score; upcoming ones do not.
func SampleMatch(id string, status matches.Status, kickoff time.Time) matches.Match {
	m := matches.Match{
		ID:       id,
		HomeTeam: "Home " + id,
		AwayTeam: "Away " + id,
		Status:   status,
		Kickoff:  &kickoff,
		Time:     kickoff.UTC().Format("15:04"),
		League:   SampleLeague("pl"),
		Source:   matches.SourceCustom,
	}
	if status != matches.StatusUpcoming {
		m.HomeScore = matches.IntPtr(1)
		m.AwayScore = matches.IntPtr(0)
	}
	return m
}

// SampleSources returns one match per status in the custom slot and one
// finished match from football-data, all kicking off today in UTC.
func SampleSources() view.Sources {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	fd := SampleMatch("fd-1", matches.StatusFinished, today.Add(12*time.Hour))
	fd.Source = matches.SourceFootballData
	fd.League = SampleLeague("2021")
	return view.Sources{
		Custom: []matches.Match{
			SampleMatch("custom-1", matches.StatusLive, today.Add(15*time.Hour)),
			SampleMatch("custom-2", matches.StatusUpcoming, today.Add(17*time.Hour)),
		},
		FootballData: []matches.Match{fd},
	}
}
