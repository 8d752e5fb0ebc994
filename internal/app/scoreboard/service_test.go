package scoreboard

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/store"
	"github.com/zonera/scoreboard-service/internal/view"
)

type stubStore struct {
	snap   store.Snapshot
	ok     bool
	match  matches.Match
	found  bool
	setLog []store.Snapshot
}

func (s *stubStore) Latest() (store.Snapshot, bool) {
	return s.snap, s.ok
}

func (s *stubStore) SetSnapshot(snap store.Snapshot) bool {
	s.setLog = append(s.setLog, snap)
	return true
}

func (s *stubStore) GetMatch(id string) (matches.Match, bool) {
	_ = id
	return s.match, s.found
}

func kickoff(raw string) *time.Time {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return &ts
}

func sampleSnapshot() store.Snapshot {
	pl := matches.League{ID: "pl", Name: "Premier League"}
	return store.Snapshot{
		Seq:       3,
		UpdatedAt: time.Date(2025, 3, 10, 15, 1, 0, 0, time.UTC),
		Sources: view.Sources{
			Custom: []matches.Match{
				{ID: "c1", Status: matches.StatusLive, League: pl, Kickoff: kickoff("2025-03-10T15:00:00Z")},
				{ID: "c2", Status: matches.StatusUpcoming, League: pl, Kickoff: kickoff("2025-03-11T15:00:00Z")},
			},
			FootballData: []matches.Match{
				{ID: "f1", Status: matches.StatusFinished, League: matches.League{ID: "2021", Name: "PL"}, Kickoff: kickoff("2025-03-10T12:00:00Z")},
			},
		},
	}
}

func newTestService(st Store) *Service {
	return NewService(st, time.UTC, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	}))
}

func TestBoardDefaultsToAll(t *testing.T) {
	svc := newTestService(&stubStore{snap: sampleSnapshot(), ok: true})

	board, err := svc.Board(Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Status != matches.FilterAll || board.Date != "" {
		t.Fatalf("unexpected filters echoed: %+v", board)
	}
	if len(board.Leagues) != 2 || board.Leagues[0].ID != "pl" || board.Leagues[1].ID != "2021" {
		t.Fatalf("unexpected groups: %+v", board.Leagues)
	}
	if board.Empty {
		t.Fatalf("expected non-empty board")
	}
	if !board.GeneratedAt.Equal(sampleSnapshot().UpdatedAt) {
		t.Fatalf("expected generatedAt from snapshot, got %v", board.GeneratedAt)
	}
}

func TestBoardFiltersByStatusAndToday(t *testing.T) {
	svc := newTestService(&stubStore{snap: sampleSnapshot(), ok: true})

	board, err := svc.Board(Query{Status: "live", Date: "today"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Date != "2025-03-10" {
		t.Fatalf("expected today's date, got %q", board.Date)
	}
	if len(board.Leagues) != 1 || len(board.Leagues[0].Matches) != 1 || board.Leagues[0].Matches[0].ID != "c1" {
		t.Fatalf("unexpected groups: %+v", board.Leagues)
	}
}

func TestBoardExplicitDate(t *testing.T) {
	svc := newTestService(&stubStore{snap: sampleSnapshot(), ok: true})

	board, err := svc.Board(Query{Date: "2025-03-11"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Leagues) != 1 || board.Leagues[0].Matches[0].ID != "c2" {
		t.Fatalf("unexpected groups: %+v", board.Leagues)
	}
}

func TestBoardEmptyBeforeFirstRefresh(t *testing.T) {
	svc := newTestService(&stubStore{})

	board, err := svc.Board(Query{Status: "live"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !board.Empty || board.Leagues == nil {
		t.Fatalf("expected empty non-nil leagues, got %+v", board)
	}
}

func TestBoardRejectsBadInput(t *testing.T) {
	svc := newTestService(&stubStore{snap: sampleSnapshot(), ok: true})

	if _, err := svc.Board(Query{Status: "halftime"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := svc.Board(Query{Date: "10-03-2025"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestDatesUsesServiceLocationByDefault(t *testing.T) {
	svc := newTestService(&stubStore{})

	days := svc.Dates(1, view.DefaultSelectedIndex, nil)
	if len(days) != view.WindowSize {
		t.Fatalf("expected %d days, got %d", view.WindowSize, len(days))
	}
	if days[view.DefaultSelectedIndex].Date != "2025-03-11" || !days[view.DefaultSelectedIndex].Selected {
		t.Fatalf("unexpected centre day: %+v", days[view.DefaultSelectedIndex])
	}
}

func TestMatchByID(t *testing.T) {
	svc := newTestService(&stubStore{match: matches.Match{ID: "abc"}, found: true})

	got, ok := svc.MatchByID("abc")
	if !ok || got.ID != "abc" {
		t.Fatalf("expected match abc, got %+v ok=%v", got, ok)
	}
}

func TestPublishStoresCycle(t *testing.T) {
	st := &stubStore{}
	svc := newTestService(st)
	done := time.Now()

	svc.Publish(context.Background(), poller.Cycle{
		Seq:         7,
		Sources:     view.Sources{Custom: []matches.Match{{ID: "x"}}},
		Failed:      []matches.Source{matches.SourceAPISports},
		CompletedAt: done,
	})

	if len(st.setLog) != 1 {
		t.Fatalf("expected one snapshot stored, got %d", len(st.setLog))
	}
	got := st.setLog[0]
	if got.Seq != 7 || got.Sources.Len() != 1 || len(got.Failed) != 1 || !got.UpdatedAt.Equal(done) {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestNewServiceDefaultsLocation(t *testing.T) {
	if NewService(&stubStore{}, nil).Location() != time.UTC {
		t.Fatalf("expected UTC default")
	}
}
