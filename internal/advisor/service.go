// Package advisor assembles a board recommendation for a request: it
// validates the surfer's measurements, gathers live conditions and the marine
// forecast for the chosen spot, and renders the view.
//
// Upstream failures never fail a request. A missing buoy reading yields a
// view without a forecast, and a missing marine forecast yields a view without
// tide or outlook.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/couchcryptid/surf-buddy/internal/units"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SnapshotStore is the latest-per-station cache shared with the poller.
type SnapshotStore interface {
	Latest(station string) (domain.ConditionsSnapshot, bool)
	Put(snap domain.ConditionsSnapshot)
}

// Sources are the upstream collaborators. Marine and Weather may be nil.
type Sources struct {
	Observations domain.ObservationSource
	Marine       domain.MarineSource
	Weather      domain.WeatherSource
}

// Options tunes the service.
type Options struct {
	DefaultStation string
	FetchTimeout   time.Duration
	SnapshotMaxAge time.Duration
}

// Request is a raw recommendation request as received from a client.
type Request struct {
	Height     string
	HeightUnit string
	Weight     string
	WeightUnit string
	Ability    string
	SpotID     string
	Station    string
}

// Service implements the recommendation flow.
type Service struct {
	sources Sources
	store   SnapshotStore
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service. store may be nil to always fetch live.
func NewService(sources Sources, store SnapshotStore, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if opts.DefaultStation == "" {
		opts.DefaultStation = domain.DefaultStation
	}
	return &Service{sources: sources, store: store, opts: opts, logger: logger, metrics: metrics}
}

// Advise validates the request and renders a recommendation view. Only
// invalid input returns an error.
func (s *Service) Advise(ctx context.Context, req Request) (domain.View, error) {
	body, err := domain.ParseBody(
		req.Height, units.ParseLengthUnit(orDefault(req.HeightUnit, string(units.Centimeters))),
		req.Weight, units.ParseMassUnit(orDefault(req.WeightUnit, string(units.Kilograms))),
	)
	if err != nil {
		return domain.View{}, err
	}

	var spot *domain.Spot
	if req.SpotID != "" {
		found, ok := domain.FindSpot(req.SpotID)
		if !ok {
			return domain.View{}, fmt.Errorf("spot %q: %w", req.SpotID, domain.ErrInputInvalid)
		}
		spot = &found
	}

	var (
		snap   *domain.ConditionsSnapshot
		marine []domain.MarineSample
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap = s.Conditions(gctx, spot, req.Station)
		return nil
	})
	g.Go(func() error {
		marine = s.Marine(gctx, spot)
		return nil
	})
	g.Wait() //nolint:errcheck // workers degrade to empty results and never fail

	state := domain.ViewState{
		Spot:            spot,
		StationOverride: req.Station,
		Body:            body,
		Ability:         domain.ParseAbility(req.Ability),
		Snapshot:        snap,
		Marine:          marine,
		Now:             domain.Now(),
	}
	if state.StationOverride == "" && spot == nil {
		state.StationOverride = s.opts.DefaultStation
	}

	view := domain.Render(state)
	s.record(view)
	return view, nil
}

// Conditions returns the current snapshot for a spot, or for stationOverride
// when set. A stored snapshot younger than SnapshotMaxAge is reused; otherwise
// the buoy and the spot's weather are fetched concurrently, each under its own
// timeout. Stored snapshots never carry spot weather, so a buoy without wind
// gets the spot's current wind on every request. Nil means no conditions are
// available.
func (s *Service) Conditions(ctx context.Context, spot *domain.Spot, stationOverride string) *domain.ConditionsSnapshot {
	station := s.station(spot, stationOverride)

	if s.store != nil {
		if cached, ok := s.store.Latest(station); ok && cached.Fresh(domain.Now(), s.opts.SnapshotMaxAge) {
			if cached.NeedsWind() {
				cached = cached.WithWeatherWind(s.weather(ctx, spot))
			}
			snap := cached.ForSpot(spot)
			return &snap
		}
	}

	var (
		obs     domain.Observation
		weather *domain.WeatherReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fctx, cancel := s.fetchContext(gctx)
		defer cancel()
		var err error
		obs, err = s.sources.Observations.LatestObservation(fctx, station)
		return err
	})
	g.Go(func() error {
		weather = s.weather(gctx, spot)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("buoy observation unavailable", "station", station, "error", err)
		return nil
	}

	stored := domain.NewSnapshot(uuid.NewString(), obs, nil, domain.Now())
	if s.store != nil {
		s.store.Put(stored)
	}
	snap := stored.WithWeatherWind(weather).ForSpot(spot)
	return &snap
}

// weather returns the current weather at the spot, or nil when there is no
// spot, no weather source, or the fetch fails.
func (s *Service) weather(ctx context.Context, spot *domain.Spot) *domain.WeatherReport {
	if spot == nil || s.sources.Weather == nil {
		return nil
	}
	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	w, err := s.sources.Weather.Weather(fctx, spot.Lat, spot.Lon)
	if err != nil {
		s.logger.Warn("weather fetch failed", "spot", spot.ID, "lat", spot.Lat, "lon", spot.Lon, "error", err)
		return nil
	}
	return &w
}

// Marine returns the hourly marine forecast at the spot, or nil.
func (s *Service) Marine(ctx context.Context, spot *domain.Spot) []domain.MarineSample {
	if spot == nil || s.sources.Marine == nil {
		return nil
	}
	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	samples, err := s.sources.Marine.MarineForecast(fctx, spot.Lat, spot.Lon)
	if err != nil {
		s.logger.Warn("marine forecast unavailable", "spot", spot.ID, "lat", spot.Lat, "lon", spot.Lon, "error", err)
		return nil
	}
	return samples
}

func (s *Service) station(spot *domain.Spot, override string) string {
	switch {
	case override != "":
		return override
	case spot != nil && spot.Station != "":
		return spot.Station
	default:
		return s.opts.DefaultStation
	}
}

func (s *Service) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.FetchTimeout)
}

func (s *Service) record(view domain.View) {
	if !view.HasForecast {
		s.metrics.ConditionsUnavailable.Inc()
	}
	if view.Recommendation == nil {
		return
	}
	s.metrics.Recommendations.WithLabelValues(string(view.Recommendation.BoardType)).Inc()
	if view.Recommendation.IsExtreme {
		s.metrics.ExtremeRecommendations.Inc()
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
