package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("upstream fetched", "service", "ndbc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "upstream fetched", line["msg"])
	assert.Equal(t, "ndbc", line["service"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.SnapshotsStored.Inc()
	a.Recommendations.WithLabelValues("Longboard").Inc()

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.SnapshotsStored), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.SnapshotsStored), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(a.Recommendations.WithLabelValues("Longboard")), 1e-9)
}
