package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "currency_api"

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	SegmentFetchesTotal *prometheus.CounterVec

	UpstreamRequestsTotal  *prometheus.CounterVec
	UpstreamRetriesTotal   *prometheus.CounterVec
	UpstreamRequestSeconds *prometheus.HistogramVec

	CircuitState *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of rate cache hits",
			},
			[]string{"provider"},
		),

		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of rate cache misses",
			},
			[]string{"provider"},
		),

		SegmentFetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "segment_fetches_total",
				Help:      "Total number of range fetches issued to rate sources for missing segments",
			},
			[]string{"provider"},
		),

		UpstreamRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of outbound requests by outcome",
			},
			[]string{"client", "outcome"},
		),

		UpstreamRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_retries_total",
				Help:      "Total number of outbound request retries",
			},
			[]string{"client"},
		),

		UpstreamRequestSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of outbound requests including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"client"},
		),

		CircuitState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_state",
				Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
			},
			[]string{"client"},
		),
	}
}

func (m *Metrics) RecordCacheHit(provider string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordCacheMiss(provider string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordSegmentFetch(provider string) {
	if m == nil {
		return
	}
	m.SegmentFetchesTotal.WithLabelValues(provider).Inc()
}

// RecordUpstreamRequest records one logical outbound call; outcome is "success" or "failure".
func (m *Metrics) RecordUpstreamRequest(client, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(client, outcome).Inc()
	m.UpstreamRequestSeconds.WithLabelValues(client).Observe(durationSeconds)
}

func (m *Metrics) RecordRetry(client string) {
	if m == nil {
		return
	}
	m.UpstreamRetriesTotal.WithLabelValues(client).Inc()
}

func (m *Metrics) SetCircuitState(client string, state float64) {
	if m == nil {
		return
	}
	m.CircuitState.WithLabelValues(client).Set(state)
}
