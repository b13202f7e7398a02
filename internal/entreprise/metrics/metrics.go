package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	SearchDurationSec prometheus.Histogram
	CacheHitsTotal    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "comptepro_entreprise_searches_total",
			Help: "Total number of registry searches by outcome",
		}, []string{"outcome"}),
		SearchDurationSec: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "comptepro_entreprise_search_duration_seconds",
			Help:    "Latency of registry searches including upstream calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comptepro_entreprise_cache_hits_total",
			Help: "Total number of searches served from the response cache",
		}),
	}
}

func (m *Metrics) RecordSearch(outcome string, seconds float64) {
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	m.SearchDurationSec.Observe(seconds)
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}
