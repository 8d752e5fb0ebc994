package scoreboard

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/poller"
	"github.com/zonera/scoreboard-service/internal/store"
	"github.com/zonera/scoreboard-service/internal/timeutil"
	"github.com/zonera/scoreboard-service/internal/view"
)

var (
	ErrInvalidStatus = errors.New("invalid status filter")
	ErrInvalidDate   = errors.New("invalid date")
)

// Store defines the snapshot storage the service reads and writes.
type Store interface {
	Latest() (store.Snapshot, bool)
	SetSnapshot(snap store.Snapshot) bool
	GetMatch(id string) (matches.Match, bool)
}

// Query selects what the board shows. An empty Date disables date
// filtering; "today" means the current date in Location.
type Query struct {
	Status   string
	Date     string
	Location *time.Location
}

// Board is the rendered view: league groups plus the filters that produced it.
type Board struct {
	Status      string                `json:"status"`
	Date        string                `json:"date,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Leagues     []matches.LeagueGroup `json:"leagues"`
	Empty       bool                  `json:"empty"`
}

// Service computes boards from the latest stored refresh.
type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service. loc is the default observer timezone.
func NewService(st Store, loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{store: st, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the default observer timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Board runs the view pipeline over the latest snapshot.
func (s *Service) Board(q Query) (Board, error) {
	status := q.Status
	if status == "" {
		status = matches.FilterAll
	}
	if !view.ValidStatusFilter(status) {
		return Board{}, errors.Wrapf(ErrInvalidStatus, "%q", q.Status)
	}

	loc := q.Location
	if loc == nil {
		loc = s.loc
	}
	day, err := s.resolveDay(q.Date, loc)
	if err != nil {
		return Board{}, err
	}

	snap, _ := s.store.Latest()
	board := Board{
		Status:      status,
		GeneratedAt: snap.UpdatedAt,
		Leagues:     view.ComputeView(snap.Sources, status, day, loc),
	}
	if day != nil {
		board.Date = timeutil.FormatDate(*day)
	}
	board.Empty = len(board.Leagues) == 0
	return board, nil
}

func (s *Service) resolveDay(raw string, loc *time.Location) (*time.Time, error) {
	switch raw {
	case "":
		return nil, nil
	case "today":
		d := view.StartOfDay(s.now(), loc)
		return &d, nil
	}
	d, err := timeutil.ParseDateIn(raw, loc)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "%q", raw)
	}
	return &d, nil
}

// Dates returns the seven-day navigation window around today+offset.
func (s *Service) Dates(offset, selected int, loc *time.Location) []view.Day {
	if loc == nil {
		loc = s.loc
	}
	return view.DayWindow(s.now(), offset, selected, loc)
}

// MatchByID returns a single match from the latest snapshot.
func (s *Service) MatchByID(id string) (matches.Match, bool) {
	return s.store.GetMatch(id)
}

// Publish stores a completed refresh cycle.
func (s *Service) Publish(_ context.Context, c poller.Cycle) {
	s.store.SetSnapshot(store.Snapshot{
		Seq:       c.Seq,
		Sources:   c.Sources,
		Failed:    c.Failed,
		UpdatedAt: c.CompletedAt,
	})
}
