package matches

import "time"

// Status is the canonical match lifecycle shared by every source.
type Status string

const (
	StatusLive     Status = "live"
	StatusUpcoming Status = "upcoming"
	StatusFinished Status = "finished"
)

// FilterAll selects every status when passed to a status filter.
const FilterAll = "all"

// DefaultTeamName is used when a source omits a team name.
const DefaultTeamName = "TBD"

// Valid reports whether s is one of the three canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLive, StatusUpcoming, StatusFinished:
		return true
	default:
		return false
	}
}

// Source identifies which fetcher produced a match. Diagnostic only.
type Source string

const (
	SourceCustom       Source = "custom"
	SourceAPISports    Source = "apisports"
	SourceFootballData Source = "footballdata"
)

// League is the competition a match belongs to.
type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo,omitempty"`
}

// Key returns the grouping key: the ID, or the name when no ID is known.
func (l League) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Name
}

// Match is the canonical match shape every source is normalized into.
type Match struct {
	ID        string     `json:"id,omitempty"`
	HomeTeam  string     `json:"homeTeam"`
	AwayTeam  string     `json:"awayTeam"`
	HomeScore *int       `json:"homeScore"`
	AwayScore *int       `json:"awayScore"`
	Status    Status     `json:"status"`
	Kickoff   *time.Time `json:"kickoffTime,omitempty"`
	Elapsed   *int       `json:"elapsed,omitempty"`
	Time      string     `json:"time,omitempty"`
	League    League     `json:"league"`
	Source    Source     `json:"source"`
}

// HasScore reports whether both scores are present.
func (m Match) HasScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Valid checks the canonical invariants: a known status, and scores present
// unless the match has not kicked off.
func (m Match) Valid() bool {
	if !m.Status.Valid() {
		return false
	}
	if !m.HasScore() && m.Status != StatusUpcoming {
		return false
	}
	return true
}

// LeagueGroup buckets matches of one league for display.
type LeagueGroup struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Logo    string  `json:"logo,omitempty"`
	Matches []Match `json:"matches"`
}

// NewLeagueGroup starts an empty group for the league.
func NewLeagueGroup(l League) LeagueGroup {
	return LeagueGroup{
		ID:      l.Key(),
		Name:    l.Name,
		Country: l.Country,
		Logo:    l.Logo,
		Matches: []Match{},
	}
}

// IntPtr is a small helper for optional scores.
func IntPtr(v int) *int {
	return &v
}
