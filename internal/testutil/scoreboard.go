package testutil

import (
	"time"

	"github.com/zonera/scoreboard-service/internal/app/scoreboard"
	"github.com/zonera/scoreboard-service/internal/store"
	"github.com/zonera/scoreboard-service/internal/view"
)

// NewScoreboardService returns a UTC service over a memory store seeded with
// src, its clock fixed at now.
func NewScoreboardService(src view.Sources, now time.Time) *scoreboard.Service {
	return NewScoreboardServiceWithClock(src, NewClock(now))
}

// NewScoreboardServiceWithClock is NewScoreboardService driven by clock, so
// tests can move "today" forward.
func NewScoreboardServiceWithClock(src view.Sources, clock *Clock) *scoreboard.Service {
	st := store.NewMemoryStore()
	st.SetSnapshot(store.Snapshot{Seq: 1, Sources: src, UpdatedAt: clock.Now()})
	return scoreboard.NewService(st, time.UTC, scoreboard.WithClock(clock.Now))
}
