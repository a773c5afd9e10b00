// Package broker implements the AMQP ingress dispatch and egress routing
// halves of the framework: one ConnectionManager shared by every
// IngressDispatcher and OutputElementTask, a Replier for correlated
// request/reply, and an EgressRouter fanning logic output out to queues
// (spec §4.4-4.8).
package broker

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/observability"
)

// ConnectionManager owns the single AMQP connection the framework shares
// across every ingress consumer and egress publisher (spec §4.8).
type ConnectionManager struct {
	uri    string
	logger observability.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewConnectionManager builds a manager for the broker reachable at uri.
func NewConnectionManager(uri string, logger observability.Logger) *ConnectionManager {
	return &ConnectionManager{uri: uri, logger: logger}
}

// Connect dials the broker if there is no live connection yet.
func (m *ConnectionManager) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && !m.conn.IsClosed() {
		return nil
	}

	conn, err := amqp.Dial(m.uri)
	if err != nil {
		return domain.NewErrorWithCause(domain.KindAPIConnectionFailure, "failed to connect to AMQP broker", err)
	}
	m.conn = conn
	m.logger.Info("connected to AMQP broker")
	return nil
}

// Channel opens a new channel on the shared connection, reconnecting
// first if necessary.
func (m *ConnectionManager) Channel() (*amqp.Channel, error) {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		if err := m.Connect(); err != nil {
			return nil, err
		}
		m.mu.Lock()
		conn = m.conn
		m.mu.Unlock()
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAPIConnectionFailure, "failed to open AMQP channel", err)
	}
	return ch, nil
}

// Close closes the shared connection. Safe to call when never connected.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
