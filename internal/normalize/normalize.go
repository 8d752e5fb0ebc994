package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/domain/records"
)

const (
	defaultLeagueID   = "other"
	defaultLeagueName = "Other"
)

// Match maps one source record to the canonical shape. Missing optional
// fields fall back to documented defaults; it never fails.
func Match(rec records.Record) matches.Match {
	switch r := rec.(type) {
	case records.CustomMatch:
		return customMatch(r)
	case *records.CustomMatch:
		if r != nil {
			return customMatch(*r)
		}
	case records.APISportsFixture:
		return apiSportsFixture(r)
	case *records.APISportsFixture:
		if r != nil {
			return apiSportsFixture(*r)
		}
	case records.FootballDataMatch:
		return footballDataMatch(r)
	case *records.FootballDataMatch:
		if r != nil {
			return footballDataMatch(*r)
		}
	}
	return defaultMatch()
}

func defaultMatch() matches.Match {
	return matches.Match{
		HomeTeam: matches.DefaultTeamName,
		AwayTeam: matches.DefaultTeamName,
		Status:   matches.StatusUpcoming,
		League:   matches.League{ID: defaultLeagueID, Name: defaultLeagueName},
	}
}

// All normalizes a batch, preserving order.
func All[R records.Record](recs []R) []matches.Match {
	out := make([]matches.Match, 0, len(recs))
	for _, r := range recs {
		out = append(out, Match(r))
	}
	return out
}

func customMatch(r records.CustomMatch) matches.Match {
	m := matches.Match{
		HomeTeam:  firstNonEmpty(r.HomeTeam, r.Home, r.HomeName, matches.DefaultTeamName),
		AwayTeam:  firstNonEmpty(r.AwayTeam, r.Away, r.AwayName, matches.DefaultTeamName),
		HomeScore: firstInt(r.HomeScore, r.HomeScoreSnake, r.ScoreHome),
		AwayScore: firstInt(r.AwayScore, r.AwayScoreSnake, r.ScoreAway),
		Status:    CustomStatus(r.Status),
		Kickoff:   parseInstant(r.Kickoff),
		Time:      strings.TrimSpace(r.Time),
		League:    customLeague(r),
		Source:    matches.SourceCustom,
	}
	if r.ID != "" {
		m.ID = string(matches.SourceCustom) + "-" + r.ID
	}
	return m
}

func customLeague(r records.CustomMatch) matches.League {
	if r.League == nil {
		id := firstNonEmpty(r.LeagueID, defaultLeagueID)
		return matches.League{ID: id, Name: firstNonEmpty(r.LeagueID, defaultLeagueName)}
	}
	l := matches.League{
		ID:      r.League.ID,
		Name:    r.League.Name,
		Country: r.League.Country,
		Logo:    r.League.Logo,
	}
	if l.ID == "" {
		l.ID = l.Name
	}
	return l
}

func apiSportsFixture(r records.APISportsFixture) matches.Match {
	m := matches.Match{
		HomeTeam:  firstNonEmpty(r.Teams.Home.Name, matches.DefaultTeamName),
		AwayTeam:  firstNonEmpty(r.Teams.Away.Name, matches.DefaultTeamName),
		HomeScore: copyInt(r.Goals.Home),
		AwayScore: copyInt(r.Goals.Away),
		Status:    APISportsStatus(r.Fixture.Status.Short),
		Kickoff:   apiSportsKickoff(r.Fixture),
		League: matches.League{
			ID:      intID(r.League.ID, r.League.Name),
			Name:    r.League.Name,
			Country: r.League.Country,
			Logo:    r.League.Logo,
		},
		Source: matches.SourceAPISports,
	}
	if m.Status == matches.StatusLive {
		m.Elapsed = copyInt(r.Fixture.Status.Elapsed)
	}
	if r.Fixture.ID != 0 {
		m.ID = fmt.Sprintf("%s-%d", matches.SourceAPISports, r.Fixture.ID)
	}
	return m
}

func apiSportsKickoff(f records.APISportsFixtureInfo) *time.Time {
	if ts := parseInstant(f.Date); ts != nil {
		return ts
	}
	if f.Timestamp == nil {
		return nil
	}
	ts := time.UnixMilli(*f.Timestamp * 1000).UTC()
	return &ts
}

func footballDataMatch(r records.FootballDataMatch) matches.Match {
	m := matches.Match{
		HomeTeam:  firstNonEmpty(r.HomeTeam.Name, matches.DefaultTeamName),
		AwayTeam:  firstNonEmpty(r.AwayTeam.Name, matches.DefaultTeamName),
		HomeScore: copyInt(r.Score.FullTime.Home),
		AwayScore: copyInt(r.Score.FullTime.Away),
		Status:    FootballDataStatus(r.Status),
		Kickoff:   parseInstant(r.UTCDate),
		League: matches.League{
			ID:      intID(r.Competition.ID, r.Competition.Name),
			Name:    r.Competition.Name,
			Country: firstNonEmpty(r.Competition.Area.Name, r.Area.Name),
			Logo:    r.Competition.Emblem,
		},
		Source: matches.SourceFootballData,
	}
	if r.ID != 0 {
		m.ID = fmt.Sprintf("%s-%d", matches.SourceFootballData, r.ID)
	}
	return m
}

func parseInstant(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &ts
}

func intID(id int, fallback string) string {
	if id != 0 {
		return strconv.Itoa(id)
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return copyInt(v)
		}
	}
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
