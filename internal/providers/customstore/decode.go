package customstore

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/records"
)

func decodeLeague(d Document) *records.CustomLeague {
	logo := str(d.Data, "logo")
	if logo == "" {
		logo = DefaultLeagueLogo
	}
	return &records.CustomLeague{
		ID:      d.ID,
		Name:    str(d.Data, "name"),
		Country: str(d.Data, "country"),
		Logo:    logo,
	}
}

func decodeMatch(d Document) records.CustomMatch {
	score, _ := d.Data["score"].(map[string]any)
	return records.CustomMatch{
		ID:             d.ID,
		HomeTeam:       str(d.Data, "homeTeam"),
		Home:           str(d.Data, "home"),
		HomeName:       str(d.Data, "home_name"),
		AwayTeam:       str(d.Data, "awayTeam"),
		Away:           str(d.Data, "away"),
		AwayName:       str(d.Data, "away_name"),
		HomeScore:      intPtr(d.Data, "homeScore"),
		HomeScoreSnake: intPtr(d.Data, "home_score"),
		AwayScore:      intPtr(d.Data, "awayScore"),
		AwayScoreSnake: intPtr(d.Data, "away_score"),
		ScoreHome:      intPtr(score, "home"),
		ScoreAway:      intPtr(score, "away"),
		Status:         str(d.Data, "status"),
		Time:           str(d.Data, "time"),
		Kickoff:        instant(d.Data, "kickoff", "date", "utcDate"),
		LeagueID:       str(d.Data, "leagueId"),
	}
}

func str(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// intPtr accepts the numeric types Firestore and JSON produce. Fractional
// and non-numeric values are treated as absent.
func intPtr(data map[string]any, key string) *int {
	var n int
	switch v := data[key].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case int32:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}

// instant returns the first present timestamp field as RFC3339.
func instant(data map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := data[k].(type) {
		case time.Time:
			if !v.IsZero() {
				return v.UTC().Format(time.RFC3339)
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
