package advisor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/surf-buddy/internal/cache"
	"github.com/couchcryptid/surf-buddy/internal/domain"
)

// Location is the result of resolving a position fix.
type Location struct {
	Place   domain.Place   `json:"place"`
	Catalog domain.Catalog `json:"catalog"`
}

// Tracker resolves position fixes to spot catalogs per client session. Only
// the newest fix of a session may complete: starting a fix cancels the one in
// flight, and a fix that finishes after being replaced reports ErrSuperseded.
//
// Idle sessions live in an LRU. A session with a fix in flight is also pinned
// so eviction cannot hand a newer fix a fresh generation counter.
type Tracker struct {
	geocoder domain.Geocoder
	sessions *cache.LRU[*session]
	logger   *slog.Logger

	mu     sync.Mutex
	pinned map[string]*session
}

type session struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	inFlight int // guarded by Tracker.mu
}

// NewTracker creates a Tracker remembering up to maxSessions sessions.
func NewTracker(geocoder domain.Geocoder, maxSessions int, logger *slog.Logger) *Tracker {
	return &Tracker{
		geocoder: geocoder,
		sessions: cache.NewLRU[*session](maxSessions),
		logger:   logger,
		pinned:   make(map[string]*session),
	}
}

// Locate resolves lat/lon for sessionID. An empty sessionID is resolved
// without supersede tracking.
func (t *Tracker) Locate(ctx context.Context, sessionID string, lat, lon float64) (Location, error) {
	if sessionID == "" {
		return t.resolve(ctx, lat, lon), nil
	}

	s := t.acquire(sessionID)
	defer t.release(sessionID, s)
	fixCtx, gen := s.begin(ctx)

	loc := t.resolve(fixCtx, lat, lon)
	if !s.finish(gen) {
		t.logger.Debug("location fix superseded", "session", sessionID, "generation", gen)
		return Location{}, domain.ErrSuperseded
	}
	return loc, nil
}

func (t *Tracker) resolve(ctx context.Context, lat, lon float64) Location {
	catalog, place := domain.ResolveCatalog(ctx, t.geocoder, lat, lon, t.logger)
	return Location{Place: place, Catalog: catalog}
}

// acquire returns the session for id and pins it until release.
func (t *Tracker) acquire(id string) *session {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.pinned[id]
	if ok {
		t.sessions.Put(id, s)
	} else {
		s = t.sessions.GetOrCreate(id, func() *session { return &session{} })
		t.pinned[id] = s
	}
	s.inFlight++
	return s
}

func (t *Tracker) release(id string, s *session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s.inFlight--
	if s.inFlight == 0 {
		delete(t.pinned, id)
	}
}

// begin starts a new generation and cancels the previous fix.
func (s *session) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	fixCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return fixCtx, s.gen
}

// finish reports whether gen is still current, releasing its context.
func (s *session) finish(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}
