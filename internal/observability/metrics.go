package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surf_buddy"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Upstream fetch metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: service={ndbc,marine,weather,nominatim}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: service
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Recommendation metrics.
	Recommendations        *prometheus.CounterVec // labels: board_type
	ExtremeRecommendations prometheus.Counter
	ConditionsUnavailable  prometheus.Counter

	// Poller metrics.
	SnapshotsStored    prometheus.Counter
	SnapshotsPublished prometheus.Counter
	PollErrors         prometheus.Counter
	PollerRunning      prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.Recommendations,
		m.ExtremeRecommendations,
		m.ConditionsUnavailable,
		m.SnapshotsStored,
		m.SnapshotsPublished,
		m.PollErrors,
		m.PollerRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by service and outcome.",
		}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"service"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Board recommendations served by board type.",
		}, []string{"board_type"}),
		ExtremeRecommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extreme_recommendations_total",
			Help:      "Recommendations served with the extreme-conditions flag set.",
		}),
		ConditionsUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_unavailable_total",
			Help:      "Recommendations computed without live conditions.",
		}),
		SnapshotsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_stored_total",
			Help:      "Conditions snapshots stored by the station poller.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Conditions snapshots published to Kafka.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Station polls that failed or returned unusable data.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "poller_running",
			Help:      "1 when the station poller is active, 0 when shut down.",
		}),
	}
}
