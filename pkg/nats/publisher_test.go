package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockJetStream struct {
	subject string
	payload []byte
	err     error
}

func (m *mockJetStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	m.subject = subject
	m.payload = payload
	if m.err != nil {
		return nil, m.err
	}
	return &jetstream.PubAck{Stream: messaging.OrdersStream, Sequence: 1}, nil
}

type testEvent struct {
	err error
}

func (e testEvent) Subject() string { return messaging.OrdersPlacedSubject }

func (e testEvent) Payload() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte(`{"order_id":"ORD-1"}`), nil
}

func TestNatsPublisher_Publish(t *testing.T) {
	errBroker := errors.New("no responders")
	errEncode := errors.New("encode")
	tests := []struct {
		name    string
		js      *mockJetStream
		event   testEvent
		wantErr error
	}{
		{name: "published", js: &mockJetStream{}},
		{name: "broker failure", js: &mockJetStream{err: errBroker}, wantErr: errBroker},
		{name: "payload failure", js: &mockJetStream{}, event: testEvent{err: errEncode}, wantErr: errEncode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			p := &NatsPublisher{js: tt.js}

			// when
			err := p.Publish(context.Background(), tt.event)

			// then
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, messaging.OrdersPlacedSubject, tt.js.subject)
			assert.JSONEq(t, `{"order_id":"ORD-1"}`, string(tt.js.payload))
		})
	}
}
