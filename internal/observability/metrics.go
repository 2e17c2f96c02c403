package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the feed
// pipeline.
type Metrics struct {
	RunsTotal      prometheus.Counter
	RunFailures    prometheus.Counter
	SchemaFailures prometheus.Counter
	RunDuration    prometheus.Histogram

	RowsFetched       prometheus.Counter
	RowsSelected      prometheus.Counter
	DroppedTimestamps prometheus.Counter
	SeriesLength      prometheus.Gauge

	ArtifactsWritten prometheus.Counter
	RecordsPublished prometheus.Counter
	PublishFailures  prometheus.Counter

	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunFailures,
		m.SchemaFailures,
		m.RunDuration,
		m.RowsFetched,
		m.RowsSelected,
		m.DroppedTimestamps,
		m.SeriesLength,
		m.ArtifactsWritten,
		m.RecordsPublished,
		m.PublishFailures,
		m.GeocodeRequests,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "runs_total",
			Help:      "Total pipeline runs attempted.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "run_failures_total",
			Help:      "Runs aborted by transport or artifact write failure.",
		}),
		SchemaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "schema_failures_total",
			Help:      "Runs that produced empty output because required column roles were unresolved.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wavefeed",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-classify-reduce-write cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "rows_fetched_total",
			Help:      "Total data rows parsed from upstream payloads.",
		}),
		RowsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "rows_selected_total",
			Help:      "Rows attributed to the target station.",
		}),
		DroppedTimestamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "dropped_timestamps_total",
			Help:      "Triples discarded for unparseable timestamps.",
		}),
		SeriesLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wavefeed",
			Name:      "series_length",
			Help:      "Canonical records emitted by the most recent run.",
		}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "artifacts_written_total",
			Help:      "Successful artifact write passes.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "records_published_total",
			Help:      "Canonical records published to the Kafka topic.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "publish_failures_total",
			Help:      "Failed Kafka publish attempts.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wavefeed",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
	}
}
