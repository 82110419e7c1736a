// Package poller periodically fetches buoy observations for a fixed set of
// stations, keeps the latest snapshot per station, and optionally publishes
// each round to the Kafka conditions feed.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// SnapshotLoader publishes a round of snapshots downstream.
type SnapshotLoader interface {
	LoadBatch(ctx context.Context, snapshots []domain.ConditionsSnapshot) error
}

// Poller runs the fetch-store-publish loop.
type Poller struct {
	source   domain.ObservationSource
	store    *Store
	loader   SnapshotLoader
	stations []string
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	ready    atomic.Bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithLoader publishes every successful round through l.
func WithLoader(l SnapshotLoader) Option {
	return func(p *Poller) { p.loader = l }
}

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// New creates a Poller for stations that refreshes every interval.
func New(source domain.ObservationSource, store *Store, stations []string, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		store:    store,
		stations: stations,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once at least one snapshot has been stored, or
// immediately when no stations are configured.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if len(p.stations) > 0 && !p.ready.Load() {
		return errors.New("poller has not stored any snapshots yet")
	}
	return nil
}

// Ready reports whether a snapshot has been stored.
func (p *Poller) Ready() bool {
	return p.ready.Load()
}

// Run polls until the context is cancelled. A round in which every station
// fails, or the publish fails, is retried with exponential backoff instead
// of waiting the full interval.
func (p *Poller) Run(ctx context.Context) error {
	if len(p.stations) == 0 {
		p.logger.Info("poller disabled, no stations configured")
		return nil
	}
	p.logger.Info("poller started", "stations", p.stations, "interval", p.interval)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	backoff := initialBackoff
	for {
		wait := p.interval
		if _, err := p.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("poll round failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff)
		} else {
			backoff = initialBackoff
		}

		if !p.sleep(ctx, wait) {
			break
		}
	}
	p.logger.Info("poller stopping", "reason", ctx.Err())
	return nil
}

// PollOnce fetches every station once, stores the resulting snapshots and
// publishes them. It returns the snapshots stored this round.
func (p *Poller) PollOnce(ctx context.Context) ([]domain.ConditionsSnapshot, error) {
	round := make([]domain.ConditionsSnapshot, 0, len(p.stations))
	for _, station := range p.stations {
		obs, err := p.source.LatestObservation(ctx, station)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.metrics.PollErrors.Inc()
			p.logger.Warn("station poll failed", "station", station, "error", err)
			continue
		}

		snap := domain.NewSnapshot(uuid.NewString(), obs, nil, p.clock.Now())
		if !snap.Conditions.Usable() {
			p.metrics.PollErrors.Inc()
			p.logger.Warn("station reported incomplete conditions", "station", station)
		}
		p.store.Put(snap)
		p.metrics.SnapshotsStored.Inc()
		round = append(round, snap)
	}

	if len(round) == 0 {
		return nil, errors.New("no station returned an observation")
	}
	p.ready.Store(true)

	if p.loader != nil {
		if err := p.loader.LoadBatch(ctx, round); err != nil {
			return round, err
		}
		p.metrics.SnapshotsPublished.Add(float64(len(round)))
	}
	return round, nil
}

func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
