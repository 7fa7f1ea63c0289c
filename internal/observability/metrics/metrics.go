package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics exposes counters/histograms for calls to the booking API.
type GatewayMetrics struct {
	callsTotal  *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hms",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total booking API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hms",
			Subsystem: "gateway",
			Name:      "call_latency_seconds",
			Help:      "Latency of booking API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.callsTotal, m.callLatency)
	return m
}

// ObserveCall records one finished call. outcome is "ok", "not_found" or "network".
func (m *GatewayMetrics) ObserveCall(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(operation, outcome).Inc()
	m.callLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
