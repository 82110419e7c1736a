package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "surf-buddy/1.0", cfg.UserAgent)
	assert.Equal(t, "https://www.ndbc.noaa.gov", cfg.NDBCBaseURL)
	assert.Equal(t, "https://marine-api.open-meteo.com", cfg.MarineBaseURL)
	assert.Equal(t, "https://api.open-meteo.com", cfg.WeatherBaseURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, "46206", cfg.DefaultStation)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, 1000, cfg.SessionCacheSize)
	assert.Equal(t, []string{"46206"}, cfg.PollStations)
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, 30*time.Minute, cfg.SnapshotMaxAge)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "surf-conditions", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("USER_AGENT", "surf-buddy-test")
	t.Setenv("DEFAULT_STATION", "46026")
	t.Setenv("GEOCODE_CACHE_SIZE", "50")
	t.Setenv("SESSION_CACHE_SIZE", "25")
	t.Setenv("POLL_STATIONS", "46206,46026,51201")
	t.Setenv("POLL_INTERVAL", "1m")
	t.Setenv("SNAPSHOT_MAX_AGE", "5m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-conditions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "surf-buddy-test", cfg.UserAgent)
	assert.Equal(t, "46026", cfg.DefaultStation)
	assert.Equal(t, 50, cfg.GeocodeCacheSize)
	assert.Equal(t, 25, cfg.SessionCacheSize)
	assert.Equal(t, []string{"46206", "46026", "51201"}, cfg.PollStations)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.SnapshotMaxAge)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-conditions", cfg.KafkaTopic)
}

func TestLoad_PollStationsList(t *testing.T) {
	t.Setenv("POLL_STATIONS", " 46206 , ,46026,")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"46206", "46026"}, cfg.PollStations)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"UPSTREAM_TIMEOUT", "POLL_INTERVAL", "SNAPSHOT_MAX_AGE"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
		t.Run(key+" zero", func(t *testing.T) {
			t.Setenv(key, "0s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "-3")
	t.Setenv("SESSION_CACHE_SIZE", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, 1000, cfg.SessionCacheSize)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SURF_BUDDY_DOTENV_TEST"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	const key = "SURF_BUDDY_DOTENV_OVERRIDE"
	t.Setenv(key, "from-env")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
