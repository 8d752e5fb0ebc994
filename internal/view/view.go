package view

import (
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

// Sources holds one fetch cycle's normalized output, one slot per source.
type Sources struct {
	Custom       []matches.Match `json:"custom"`
	APISports    []matches.Match `json:"apisports"`
	FootballData []matches.Match `json:"footballdata"`
}

// Len returns the total number of matches across all slots.
func (s Sources) Len() int {
	return len(s.Custom) + len(s.APISports) + len(s.FootballData)
}

// Merge concatenates the sources in fixed order: custom store, api-sports,
// football-data. Duplicates across sources are kept.
func Merge(custom, apiSports, footballData []matches.Match) []matches.Match {
	out := make([]matches.Match, 0, len(custom)+len(apiSports)+len(footballData))
	out = append(out, custom...)
	out = append(out, apiSports...)
	out = append(out, footballData...)
	return out
}

// Filter keeps matches whose status equals status. "all" and "" return the
// input unchanged.
func Filter(ms []matches.Match, status string) []matches.Match {
	if status == "" || status == matches.FilterAll {
		return ms
	}
	want := matches.Status(status)
	out := make([]matches.Match, 0, len(ms))
	for _, m := range ms {
		if m.Status == want {
			out = append(out, m)
		}
	}
	return out
}

// FilterByDay keeps matches that kick off on day's calendar date in loc.
// Matches without a kickoff time are dropped.
func FilterByDay(ms []matches.Match, day time.Time, loc *time.Location) []matches.Match {
	out := make([]matches.Match, 0, len(ms))
	for _, m := range ms {
		if m.Kickoff == nil {
			continue
		}
		if SameDay(*m.Kickoff, day, loc) {
			out = append(out, m)
		}
	}
	return out
}

// GroupByLeague buckets matches by league key. Groups appear in first-seen
// order and matches keep their relative order.
func GroupByLeague(ms []matches.Match) []matches.LeagueGroup {
	groups := make([]matches.LeagueGroup, 0)
	index := make(map[string]int)
	for _, m := range ms {
		key := m.League.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, matches.NewLeagueGroup(m.League))
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups
}

// ComputeView runs merge, status filter, optional day filter and grouping.
// A nil day disables date filtering.
func ComputeView(src Sources, status string, day *time.Time, loc *time.Location) []matches.LeagueGroup {
	merged := Merge(src.Custom, src.APISports, src.FootballData)
	filtered := Filter(merged, status)
	if day != nil {
		filtered = FilterByDay(filtered, *day, loc)
	}
	return GroupByLeague(filtered)
}

// ValidStatusFilter reports whether status is "all" or a canonical status.
func ValidStatusFilter(status string) bool {
	return status == "" || status == matches.FilterAll || matches.Status(status).Valid()
}
