package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)
	m.ObserveCall("list_doctors", "ok", 20*time.Millisecond)
	m.ObserveCall("list_doctors", "ok", 30*time.Millisecond)
	m.ObserveCall("delete_appointment", "not_found", 5*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}

	calls := byName["hms_gateway_calls_total"]
	require.NotNil(t, calls, "calls counter should be registered")
	counts := map[string]float64{}
	for _, metric := range calls.GetMetric() {
		var op, outcome string
		for _, label := range metric.GetLabel() {
			switch label.GetName() {
			case "operation":
				op = label.GetValue()
			case "outcome":
				outcome = label.GetValue()
			}
		}
		counts[op+"/"+outcome] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["list_doctors/ok"])
	assert.Equal(t, 1.0, counts["delete_appointment/not_found"])

	latency := byName["hms_gateway_call_latency_seconds"]
	require.NotNil(t, latency, "latency histogram should be registered")
	assert.Len(t, latency.GetMetric(), 2)
}

func TestGatewayMetricsNilSafe(t *testing.T) {
	var m *GatewayMetrics
	m.ObserveCall("list_doctors", "ok", time.Millisecond)
}
