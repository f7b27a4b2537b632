// Package observability holds the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the lookup
// pipeline.
type Metrics struct {
	// Lookups counts completed lookups by capability and outcome. Outcome
	// is "ok" or the error code that failed the request.
	Lookups *prometheus.CounterVec

	GeocodeDuration prometheus.Histogram
	SpatialDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics registered on the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landuse",
			Name:      "lookups_total",
			Help:      "Completed lookups by capability and outcome.",
		}, []string{"capability", "outcome"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landuse",
			Name:      "geocode_duration_seconds",
			Help:      "Duration of the geocoding step, both providers included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SpatialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landuse",
			Name:      "spatial_query_duration_seconds",
			Help:      "Duration of the feature service query.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(m.Lookups, m.GeocodeDuration, m.SpatialDuration)
	return m
}
