// Command surfbuddy serves the board recommendation API and runs the station
// poller that keeps buoy snapshots warm.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/surf-buddy/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/surf-buddy/internal/adapter/kafka"
	"github.com/couchcryptid/surf-buddy/internal/adapter/ndbc"
	"github.com/couchcryptid/surf-buddy/internal/adapter/nominatim"
	"github.com/couchcryptid/surf-buddy/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-buddy/internal/adapter/upstream"
	"github.com/couchcryptid/surf-buddy/internal/advisor"
	"github.com/couchcryptid/surf-buddy/internal/config"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/couchcryptid/surf-buddy/internal/poller"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	newUpstream := func(service string) *upstream.Client {
		return upstream.NewClient(service, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger)
	}
	buoys := ndbc.NewClient(newUpstream("ndbc"), cfg.NDBCBaseURL)
	meteo := openmeteo.NewClient(newUpstream("marine"), newUpstream("weather"), cfg.MarineBaseURL, cfg.WeatherBaseURL)
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(newUpstream("nominatim"), cfg.NominatimBaseURL),
		cfg.GeocodeCacheSize, metrics,
	)

	store := poller.NewStore()
	var pollOpts []poller.Option
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		pollOpts = append(pollOpts, poller.WithLoader(writer))
		logger.Info("kafka conditions feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka conditions feed disabled")
	}
	p := poller.New(buoys, store, cfg.PollStations, cfg.PollInterval, logger, metrics, pollOpts...)

	svc := advisor.NewService(
		advisor.Sources{Observations: buoys, Marine: meteo, Weather: meteo},
		store,
		advisor.Options{
			DefaultStation: cfg.DefaultStation,
			FetchTimeout:   cfg.UpstreamTimeout,
			SnapshotMaxAge: cfg.SnapshotMaxAge,
		},
		logger, metrics,
	)
	tracker := advisor.NewTracker(geocoder, cfg.SessionCacheSize, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Advisor:        svc,
		Locator:        tracker,
		Buoys:          buoys,
		Marine:         meteo,
		Weather:        meteo,
		Geocoder:       geocoder,
		Ready:          p,
		DefaultStation: cfg.DefaultStation,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start station poller.
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pollDone:
	case <-shutdownCtx.Done():
		logger.Warn("poller did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
