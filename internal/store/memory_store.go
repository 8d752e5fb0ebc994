package store

import (
	"sync"
	"time"

	"github.com/zonera/scoreboard-service/internal/domain/matches"
	"github.com/zonera/scoreboard-service/internal/view"
)

// Snapshot is the latest completed refresh.
type Snapshot struct {
	Seq       int64
	Sources   view.Sources
	Failed    []matches.Source
	UpdatedAt time.Time
}

// MemoryStore keeps the latest snapshot for readers. It holds no other state.
type MemoryStore struct {
	mu    sync.RWMutex
	snap  Snapshot
	set   bool
	index map[string]matches.Match
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]matches.Match)}
}

// SetSnapshot replaces the current snapshot. Older sequence numbers are
// ignored so a slow cycle cannot overwrite a newer one.
func (s *MemoryStore) SetSnapshot(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set && snap.Seq != 0 && snap.Seq < s.snap.Seq {
		return false
	}
	s.snap = snap
	s.set = true
	s.index = make(map[string]matches.Match, snap.Sources.Len())
	for _, m := range view.Merge(snap.Sources.Custom, snap.Sources.APISports, snap.Sources.FootballData) {
		if m.ID != "" {
			s.index[m.ID] = m
		}
	}
	return true
}

// Latest returns the current snapshot and whether one has been stored.
func (s *MemoryStore) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.set
}

// Sources returns the latest per-source slots, empty before the first cycle.
func (s *MemoryStore) Sources() view.Sources {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Sources
}

// GetMatch retrieves a match by ID from the latest snapshot.
func (s *MemoryStore) GetMatch(id string) (matches.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.index[id]
	return m, ok
}
