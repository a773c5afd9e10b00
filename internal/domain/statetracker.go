package domain

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// State is the liveness state an element reports to a StateTracker: either
// Valid or Error carrying a message (spec §6 "State tracker").
type State struct {
	Valid   bool
	Message string
}

// ValidState is the liveness state reported after a successful handling
// cycle.
func ValidState() State {
	return State{Valid: true}
}

// ErrorState builds the liveness state reported after a failed handling
// cycle.
func ErrorState(message string) State {
	return State{Valid: false, Message: message}
}

//go:generate mockgen -destination=mocks/mock_statetracker.go -package=mocks -source=statetracker.go StateTracker

// StateTracker is a cloneable client every ingress dispatcher reports its
// liveness to. Output element tasks do not report state. It is an external
// collaborator per spec §1; the framework only requires the shape below.
type StateTracker interface {
	// WithID returns a copy of the tracker scoped to id (typically the
	// element name), mirroring the cloneable-and-then-set_id pattern used
	// at construction time in the original source.
	WithID(id string) StateTracker
	// SendState reports the current liveness state.
	SendState(ctx context.Context, state State) error
}

// NoopStateTracker discards every state report. A host service can swap it
// in for the PrometheusStateTracker that bootstrap provides by default.
type NoopStateTracker struct{}

// WithID implements StateTracker.
func (NoopStateTracker) WithID(string) StateTracker { return NoopStateTracker{} }

// SendState implements StateTracker.
func (NoopStateTracker) SendState(context.Context, State) error { return nil }

// PrometheusStateTracker reports State as a gauge labeled by the id set at
// WithID time: 1 for Valid, 0 for Error. It lets the framework run
// end-to-end without a host-supplied StateTracker, unlike NoopStateTracker
// which discards every report.
type PrometheusStateTracker struct {
	gauge *prometheus.GaugeVec
	id    string
}

// NewPrometheusStateTracker registers its gauge against registry. Pass the
// same registry the rest of the framework's metrics use (observability.Metrics.Registry)
// so /metrics exposes element liveness alongside dispatch and publish metrics.
func NewPrometheusStateTracker(registry *prometheus.Registry) *PrometheusStateTracker {
	gauge := promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "amqp_api_element_state",
		Help: "Liveness state last reported by an element's StateTracker: 1 for Valid, 0 for Error.",
	}, []string{"id"})
	return &PrometheusStateTracker{gauge: gauge}
}

// WithID implements StateTracker.
func (t *PrometheusStateTracker) WithID(id string) StateTracker {
	return &PrometheusStateTracker{gauge: t.gauge, id: id}
}

// SendState implements StateTracker.
func (t *PrometheusStateTracker) SendState(_ context.Context, state State) error {
	value := 0.0
	if state.Valid {
		value = 1.0
	}
	t.gauge.WithLabelValues(t.id).Set(value)
	return nil
}
