package normalize

import "github.com/zonera/scoreboard-service/internal/domain/matches"

// APISportsStatus maps an api-sports fixture.status.short code. Matching is
// exact and case-sensitive; unknown codes (PEN, SUSP, ...) count as upcoming.
func APISportsStatus(short string) matches.Status {
	switch short {
	case "NS":
		return matches.StatusUpcoming
	case "FT":
		return matches.StatusFinished
	case "1H", "2H", "LIVE", "HT", "ET", "P":
		return matches.StatusLive
	default:
		return matches.StatusUpcoming
	}
}

// FootballDataStatus maps a football-data.org status. Anything that is neither
// in play nor scheduled (FINISHED, POSTPONED, SUSPENDED, "") collapses to
// finished.
func FootballDataStatus(status string) matches.Status {
	switch status {
	case "IN_PLAY":
		return matches.StatusLive
	case "SCHEDULED":
		return matches.StatusUpcoming
	default:
		return matches.StatusFinished
	}
}

// CustomStatus passes canonical values through and treats the rest as upcoming.
func CustomStatus(status string) matches.Status {
	s := matches.Status(status)
	if s.Valid() {
		return s
	}
	return matches.StatusUpcoming
}
