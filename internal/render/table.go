package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
)

// EmptyMessage is printed instead of a table when no league has matches.
const EmptyMessage = "No matches"

// Options tweaks table output.
type Options struct {
	Location *time.Location
	// Style is "light" (default), "plain" or "markdown".
	Style string
}

// Board writes league groups as one table, with a separator between leagues.
func Board(w io.Writer, groups []matches.LeagueGroup, opts Options) {
	if len(groups) == 0 {
		fmt.Fprintln(w, EmptyMessage)
		return
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"League", "Kickoff", "Home", "Score", "Away", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignCenter},
		{Name: "Status", Align: text.AlignRight},
	})

	for i, g := range groups {
		if i > 0 {
			t.AppendSeparator()
		}
		for j, m := range g.Matches {
			league := ""
			if j == 0 {
				league = leagueLabel(g)
			}
			t.AppendRow(table.Row{league, kickoff(m, loc), m.HomeTeam, Score(m), m.AwayTeam, StatusLabel(m)})
		}
	}

	switch opts.Style {
	case "markdown":
		t.RenderMarkdown()
		return
	case "plain":
		t.SetStyle(table.StyleDefault)
	default:
		t.SetStyle(table.StyleLight)
	}
	t.Render()
}

func leagueLabel(g matches.LeagueGroup) string {
	parts := make([]string, 0, 3)
	if g.Logo != "" && !strings.HasPrefix(g.Logo, "http") {
		parts = append(parts, g.Logo)
	}
	parts = append(parts, g.Name)
	if g.Country != "" {
		parts = append(parts, "("+g.Country+")")
	}
	return strings.Join(parts, " ")
}

func kickoff(m matches.Match, loc *time.Location) string {
	if m.Kickoff != nil {
		return m.Kickoff.In(loc).Format("15:04")
	}
	return m.Time
}

// Score renders "home - away", or "-" when the match has no score yet.
func Score(m matches.Match) string {
	if !m.HasScore() {
		return "-"
	}
	return fmt.Sprintf("%d - %d", *m.HomeScore, *m.AwayScore)
}

// StatusLabel shows the elapsed minute for live matches.
func StatusLabel(m matches.Match) string {
	if m.Status == matches.StatusLive && m.Elapsed != nil {
		return fmt.Sprintf("%d'", *m.Elapsed)
	}
	return string(m.Status)
}
