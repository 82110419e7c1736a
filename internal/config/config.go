package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream API configuration.
	UpstreamTimeout  time.Duration
	UserAgent        string
	NDBCBaseURL      string
	MarineBaseURL    string
	WeatherBaseURL   string
	NominatimBaseURL string
	DefaultStation   string
	GeocodeCacheSize int
	SessionCacheSize int

	// Station poller configuration.
	PollStations   []string
	PollInterval   time.Duration
	SnapshotMaxAge time.Duration

	// Kafka conditions feed configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parsePositiveDuration("UPSTREAM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	snapshotMaxAge, err := parsePositiveDuration("SNAPSHOT_MAX_AGE", "30m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UpstreamTimeout:  upstreamTimeout,
		UserAgent:        sharedcfg.EnvOrDefault("USER_AGENT", "surf-buddy/1.0"),
		NDBCBaseURL:      sharedcfg.EnvOrDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov"),
		MarineBaseURL:    sharedcfg.EnvOrDefault("OPENMETEO_MARINE_URL", "https://marine-api.open-meteo.com"),
		WeatherBaseURL:   sharedcfg.EnvOrDefault("OPENMETEO_WEATHER_URL", "https://api.open-meteo.com"),
		NominatimBaseURL: sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		DefaultStation:   sharedcfg.EnvOrDefault("DEFAULT_STATION", "46206"),
		GeocodeCacheSize: parsePositiveInt("GEOCODE_CACHE_SIZE", 1000),
		SessionCacheSize: parsePositiveInt("SESSION_CACHE_SIZE", 1000),

		PollStations:   parseList(sharedcfg.EnvOrDefault("POLL_STATIONS", "46206")),
		PollInterval:   pollInterval,
		SnapshotMaxAge: snapshotMaxAge,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "surf-conditions"),
	}

	if cfg.DefaultStation == "" {
		return nil, errors.New("DEFAULT_STATION is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// parseList splits a comma-separated value, trimming spaces and dropping
// empty entries.
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
