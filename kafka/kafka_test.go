package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_PublishCartEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event CartEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeCartItemAdded || event.UserID != "u1" || event.EventID == "" {
			return errors.New("unexpected payload")
		}
		if !event.CartValue.Equal(decimal.RequireFromString("12.5")) {
			return errors.New("cart value not preserved")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, "instance-a")
	err := p.PublishCartEvent(context.Background(), CartEvent{
		EventType: EventTypeCartItemAdded,
		UserID:    "u1",
		ProductID: "p1",
		Quantity:  1,
		CartCount: 1,
		CartValue: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublisher_SessionRevokedCarriesInstance(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event SessionRevokedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.InstanceID != "instance-a" || event.Fingerprint != "abc" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, "instance-a")
	require.NoError(t, p.PublishSessionRevoked(context.Background(), SessionRevokedEvent{
		Fingerprint: "abc",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	require.NoError(t, p.Close())
}

func TestPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, "instance-a")
	err := p.PublishCartEvent(context.Background(), CartEvent{EventType: EventTypeCartCleared, UserID: "u1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestConsumer_DispatchesByEventType(t *testing.T) {
	c := newConsumer(nil, "group", []string{TopicSessionRevoked})
	var got SessionRevokedEvent
	c.RegisterHandler(EventTypeSessionRevoked, SessionRevokedHandler(func(_ context.Context, e SessionRevokedEvent) error {
		got = e
		return nil
	}))
	h := &consumerGroupHandler{consumer: c}

	payload, err := json.Marshal(SessionRevokedEvent{EventID: "e1", Fingerprint: "fp"})
	require.NoError(t, err)
	msg := &sarama.ConsumerMessage{
		Topic: TopicSessionRevoked,
		Value: payload,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeSessionRevoked)},
			{Key: []byte("event_id"), Value: []byte("e1")},
		},
	}

	require.NoError(t, h.handleMessage(context.Background(), msg))
	assert.Equal(t, "fp", got.Fingerprint)
}

func TestConsumer_RejectsUnknownMessages(t *testing.T) {
	c := newConsumer(nil, "group", nil)
	h := &consumerGroupHandler{consumer: c}

	assert.Error(t, h.handleMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{}")}))
	assert.Error(t, h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Value:   []byte("{}"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte("unknown")}},
	}))

	c.RegisterHandler(EventTypeSessionRevoked, SessionRevokedHandler(func(context.Context, SessionRevokedEvent) error { return nil }))
	assert.Error(t, h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Value:   []byte("not json"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeSessionRevoked)}},
	}))
}
