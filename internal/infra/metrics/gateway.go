package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		gatewayCalls,
		gatewayLatency,
	)
}

var (
	// op: login|initialize|query
	// outcome: ok|auth_error|transport_error|vendor_error
	gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Monnify API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	gatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Monnify API call latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op"},
	)
)

func IncGatewayCall(op, outcome string) {
	gatewayCalls.WithLabelValues(norm(op), norm(outcome)).Inc()
}

func ObserveGatewayCall(op string, seconds float64) {
	gatewayLatency.WithLabelValues(norm(op)).Observe(seconds)
}
