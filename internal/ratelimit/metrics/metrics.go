package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal    *prometheus.CounterVec
	DeniedTotal    prometheus.Counter
	TrackedBuckets prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "comptepro_ratelimit_checks_total",
			Help: "Total number of rate limit checks by outcome",
		}, []string{"outcome"}),
		DeniedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "comptepro_ratelimit_denied_total",
			Help: "Total number of requests denied by the rate limiter",
		}),
		TrackedBuckets: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "comptepro_ratelimit_tracked_buckets",
			Help: "Current number of identifier windows held in memory",
		}),
	}
}

func (m *Metrics) RecordCheck(allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
		m.DeniedTotal.Inc()
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetTrackedBuckets(count int) {
	m.TrackedBuckets.Set(float64(count))
}
