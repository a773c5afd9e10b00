package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the broker framework exposes.
// One instance is built per process and threaded through the ingress
// dispatchers and output element tasks so every component records against
// the same registry.
type Metrics struct {
	Registry *prometheus.Registry

	InflightRequests *prometheus.GaugeVec
	DeliveriesTotal  *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	PublishTotal     *prometheus.CounterVec
	PublishErrors    *prometheus.CounterVec
	PublishDuration  *prometheus.HistogramVec
}

// NewMetrics builds a fresh Prometheus registry and registers every
// collector the framework records against, mirroring the promauto pattern
// the broker publisher uses for its own counters and histograms.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		InflightRequests: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "amqp_api_inflight_requests",
			Help: "Number of ingress requests currently being handled, by input element.",
		}, []string{"element"}),
		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amqp_api_deliveries_total",
			Help: "Total AMQP deliveries received by an input element, by outcome.",
		}, []string{"element", "outcome"}),
		DispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amqp_api_dispatch_duration_seconds",
			Help:    "Time from delivery receipt to the handler's result, by input element.",
			Buckets: prometheus.DefBuckets,
		}, []string{"element"}),
		PublishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amqp_api_publish_total",
			Help: "Total egress publishes, by output element and status.",
		}, []string{"element", "status"}),
		PublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amqp_api_publish_errors_total",
			Help: "Total egress publish errors, by output element and error type.",
		}, []string{"element", "error_type"}),
		PublishDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amqp_api_publish_duration_seconds",
			Help:    "Egress publish duration, by output element.",
			Buckets: prometheus.DefBuckets,
		}, []string{"element"}),
	}
}

// NewNopMetrics returns a Metrics instance backed by a private registry, safe
// to use in tests that don't care about the collected values.
func NewNopMetrics() *Metrics {
	return NewMetrics()
}
