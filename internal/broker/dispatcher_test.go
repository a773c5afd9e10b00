package broker

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cooplan/amqp-api/internal/auth"
	"github.com/cooplan/amqp-api/internal/domain"
	"github.com/cooplan/amqp-api/internal/domain/mocks"
	"github.com/cooplan/amqp-api/internal/observability"
)

// fakeAcknowledger implements amqp.Acknowledger so handle() can ack/reject
// a delivery without a live broker connection.
type fakeAcknowledger struct {
	acked, rejected bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error        { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(uint64, bool, bool) error { return nil }
func (f *fakeAcknowledger) Reject(uint64, bool) error     { f.rejected = true; return nil }

type stubValidator struct {
	token *domain.Token
	err   error
}

func (s stubValidator) Validate(context.Context, string) (*domain.Token, error) {
	return s.token, s.err
}

func newTestDispatcher(t *testing.T, allowedActions []string, token *domain.Token, handler domain.Handler) *IngressDispatcher {
	t.Helper()

	element := domain.NewInputElement("orders", allowedActions, handler, 4)
	return &IngressDispatcher{
		element:      element,
		authorizer:   auth.NewAuthorizer(stubValidator{token: token}),
		stateTracker: domain.NoopStateTracker{},
		logger:       observability.NewNopLoggerForTest(),
		metrics:      observability.NewMetrics(),
		sem:          make(chan struct{}, 4),
	}
}

func TestIngressDispatcher_Process_Success(t *testing.T) {
	token, err := domain.NewToken(map[string]interface{}{"permissions": []interface{}{"create:orders"}})
	require.NoError(t, err)

	handler := func(_ context.Context, request *domain.Request, _ chan<- interface{}) domain.RequestResult {
		return domain.NewOk(request.Fields())
	}
	d := newTestDispatcher(t, []string{"create"}, token, handler)

	body := []byte(`{"header":{"token":"tok","element":"orders","action":"create"},"name":"widget"}`)
	result := d.process(context.Background(), amqp.Delivery{Body: body})

	assert.True(t, result.IsOk())
}

func TestIngressDispatcher_Process_MalformedBody(t *testing.T) {
	d := newTestDispatcher(t, []string{"create"}, nil, nil)

	result := d.process(context.Background(), amqp.Delivery{Body: []byte("not-json")})

	assert.False(t, result.IsOk())
	errValue, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, domain.KindMalformedRequest, errValue.Kind)
}

func TestIngressDispatcher_Process_SanitizationFailure(t *testing.T) {
	d := newTestDispatcher(t, []string{"create"}, nil, nil)

	body := []byte(`{"header":{"token":"tok","element":"orders","action":"delete"}}`)
	result := d.process(context.Background(), amqp.Delivery{Body: body})

	assert.False(t, result.IsOk())
}

func TestIngressDispatcher_Handle_ReportsStateViaStateTracker(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockStateTracker(ctrl)
	tracker.EXPECT().SendState(gomock.Any(), domain.ValidState()).Return(nil)

	token, err := domain.NewToken(map[string]interface{}{"permissions": []interface{}{"create:orders"}})
	require.NoError(t, err)

	handler := func(_ context.Context, request *domain.Request, _ chan<- interface{}) domain.RequestResult {
		return domain.NewOk(request.Fields())
	}
	d := newTestDispatcher(t, []string{"create"}, token, handler)
	d.stateTracker = tracker

	ack := &fakeAcknowledger{}
	body := []byte(`{"header":{"token":"tok","element":"orders","action":"create"}}`)
	delivery := amqp.Delivery{Body: body, Acknowledger: ack}

	d.handle(context.Background(), delivery)

	assert.True(t, ack.acked)
}

func TestIngressDispatcher_Process_AuthorizationFailure(t *testing.T) {
	token, err := domain.NewToken(map[string]interface{}{"permissions": []interface{}{"read:orders"}})
	require.NoError(t, err)

	d := newTestDispatcher(t, []string{"create"}, token, nil)

	body := []byte(`{"header":{"token":"tok","element":"orders","action":"create"}}`)
	result := d.process(context.Background(), amqp.Delivery{Body: body})

	assert.False(t, result.IsOk())
}
