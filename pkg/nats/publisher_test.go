package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fernando061/software-architecture-styles/pkg/messaging/events"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJetStream struct {
	mock.Mock
}

func (m *mockJetStream) Publish(ctx context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, subject, payload)
	var ack *jetstream.PubAck
	if args.Get(0) != nil {
		ack = args.Get(0).(*jetstream.PubAck)
	}
	return ack, args.Error(1)
}

func Test_NatsPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	event := events.ProductCreatedEvent{
		ProductID: 4,
		Name:      "Monitor 4K",
		Price:     decimal.RequireFromString("299.99"),
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	expectedPayload := `{"product_id":4,"name":"Monitor 4K","price":"299.99","created_at":"2025-01-02T03:04:05Z"}`

	testCases := []struct {
		name        string
		retErr      error
		expectError bool
	}{
		{name: "published", retErr: nil},
		{name: "broker error", retErr: errors.New("no responders"), expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			js := new(mockJetStream)
			js.On("Publish", ctx, events.ProductCreatedSubject, mock.MatchedBy(func(payload []byte) bool {
				return assert.JSONEq(t, expectedPayload, string(payload))
			})).Return(&jetstream.PubAck{Stream: "PRODUCTS"}, tc.retErr).Once()
			publisher := &NatsPublisher{js: js}

			// when
			err := publisher.Publish(ctx, event)

			// then
			if tc.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			js.AssertExpectations(t)
		})
	}
}
