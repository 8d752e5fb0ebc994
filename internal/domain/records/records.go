package records

import "github.com/zonera/scoreboard-service/internal/domain/matches"

// Record is a source-native match record. It is a closed union: only the
// three shapes in this package implement it.
type Record interface {
	Source() matches.Source
	isRecord()
}

// CustomMatch is a document from the custom store "matches" collection.
// Field names vary between writers, so every alias is kept and resolved by
// the normalizer in a fixed order.
type CustomMatch struct {
	ID string

	HomeTeam string // homeTeam
	Home     string // home
	HomeName string // home_name
	AwayTeam string // awayTeam
	Away     string // away
	AwayName string // away_name

	HomeScore      *int // homeScore
	HomeScoreSnake *int // home_score
	AwayScore      *int // awayScore
	AwayScoreSnake *int // away_score
	ScoreHome      *int // score.home
	ScoreAway      *int // score.away

	Status  string
	Time    string // display time, e.g. "15:00"
	Kickoff string // kickoff, date or utcDate; RFC3339

	LeagueID string
	League   *CustomLeague
}

// CustomLeague is a document from the custom store "leagues" collection.
type CustomLeague struct {
	ID      string
	Name    string
	Country string
	Logo    string
}

func (CustomMatch) Source() matches.Source { return matches.SourceCustom }
func (CustomMatch) isRecord()              {}

// APISportsEnvelope is the api-sports response wrapper.
type APISportsEnvelope struct {
	Errors   any                `json:"errors"`
	Results  int                `json:"results"`
	Response []APISportsFixture `json:"response"`
}

// APISportsFixture is one element of the api-sports fixtures response.
type APISportsFixture struct {
	Fixture APISportsFixtureInfo `json:"fixture"`
	League  APISportsLeague      `json:"league"`
	Teams   APISportsTeams       `json:"teams"`
	Goals   APISportsGoals       `json:"goals"`
}

type APISportsFixtureInfo struct {
	ID        int             `json:"id"`
	Date      string          `json:"date"`
	Timestamp *int64          `json:"timestamp"`
	Status    APISportsStatus `json:"status"`
}

type APISportsStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type APISportsLeague struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
}

type APISportsTeams struct {
	Home APISportsTeam `json:"home"`
	Away APISportsTeam `json:"away"`
}

type APISportsTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type APISportsGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (APISportsFixture) Source() matches.Source { return matches.SourceAPISports }
func (APISportsFixture) isRecord()              {}

// FootballDataEnvelope is the football-data.org /matches response wrapper.
type FootballDataEnvelope struct {
	Matches []FootballDataMatch `json:"matches"`
}

// FootballDataMatch is one element of the football-data.org matches list.
type FootballDataMatch struct {
	ID          int                     `json:"id"`
	UTCDate     string                  `json:"utcDate"`
	Status      string                  `json:"status"`
	Area        FootballDataArea        `json:"area"`
	Competition FootballDataCompetition `json:"competition"`
	HomeTeam    FootballDataTeam        `json:"homeTeam"`
	AwayTeam    FootballDataTeam        `json:"awayTeam"`
	Score       FootballDataScore       `json:"score"`
}

type FootballDataArea struct {
	Name string `json:"name"`
}

type FootballDataCompetition struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Emblem string           `json:"emblem"`
	Area   FootballDataArea `json:"area"`
}

type FootballDataTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type FootballDataScore struct {
	FullTime FootballDataGoals `json:"fullTime"`
}

type FootballDataGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (FootballDataMatch) Source() matches.Source { return matches.SourceFootballData }
func (FootballDataMatch) isRecord()              {}
