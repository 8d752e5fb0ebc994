package view

import "time"

const (
	windowRadius = 3
	// DefaultSelectedIndex points at the center of the window ("today" when offset is 0).
	DefaultSelectedIndex = windowRadius
	// WindowSize is the number of days shown in the date strip.
	WindowSize = 2*windowRadius + 1
)

// Day is one entry of the date navigation strip.
type Day struct {
	Date     string    `json:"date"`
	Start    time.Time `json:"start"`
	Weekday  string    `json:"weekday"`
	DayNum   int       `json:"dayNum"`
	Selected bool      `json:"selected"`
}

// DayWindow returns seven consecutive calendar days in loc, centered on
// now's date shifted by offset days. selected marks one entry; values
// outside the window fall back to the center.
func DayWindow(now time.Time, offset, selected int, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}
	if selected < 0 || selected >= WindowSize {
		selected = DefaultSelectedIndex
	}
	today := StartOfDay(now, loc)
	days := make([]Day, 0, WindowSize)
	for i := -windowRadius; i <= windowRadius; i++ {
		d := today.AddDate(0, 0, offset+i)
		days = append(days, Day{
			Date:     d.Format("2006-01-02"),
			Start:    d,
			Weekday:  d.Format("Mon"),
			DayNum:   d.Day(),
			Selected: i+windowRadius == selected,
		})
	}
	return days
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay compares calendar dates in loc, not a 24 hour window.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
