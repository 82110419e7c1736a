package poller

import (
	"slices"
	"sync"

	"github.com/couchcryptid/surf-buddy/internal/domain"
)

// Store keeps the most recent conditions snapshot per station. It is safe for
// concurrent use by the poller and request handlers.
type Store struct {
	mu     sync.RWMutex
	latest map[string]domain.ConditionsSnapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{latest: make(map[string]domain.ConditionsSnapshot)}
}

// Put records snap unless a snapshot with a later observation time is
// already stored for the station.
func (s *Store) Put(snap domain.ConditionsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.latest[snap.Station]; ok && cur.ObservedAt.After(snap.ObservedAt) {
		return
	}
	s.latest[snap.Station] = snap
}

// Latest returns the stored snapshot for station.
func (s *Store) Latest(station string) (domain.ConditionsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.latest[station]
	return snap, ok
}

// Stations returns the stations with a stored snapshot in sorted order.
func (s *Store) Stations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.latest))
	for station := range s.latest {
		out = append(out, station)
	}
	slices.Sort(out)
	return out
}
