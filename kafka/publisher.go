package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/shopfront/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer   sarama.SyncProducer
	instanceID string
	now        func() time.Time
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string, instanceID string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("instance_id", instanceID).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, instanceID), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, instanceID string) *Publisher {
	return &Publisher{producer: producer, instanceID: instanceID, now: time.Now}
}

// PublishCartEvent publishes a cart event keyed by user, so one user's events
// stay ordered within a partition
func (p *Publisher) PublishCartEvent(ctx context.Context, event CartEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.Timestamp = p.now().UTC()

	return p.publish(ctx, TopicCartEvents, event.EventType, event.EventID, event.UserID, event,
		attribute.String("user.id", event.UserID),
		attribute.String("product.id", event.ProductID),
		attribute.Int("cart.count", event.CartCount),
	)
}

// PublishSessionRevoked announces a logout to the other replicas
func (p *Publisher) PublishSessionRevoked(ctx context.Context, event SessionRevokedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.InstanceID = p.instanceID
	event.Timestamp = p.now().UTC()

	return p.publish(ctx, TopicSessionRevoked, EventTypeSessionRevoked, event.EventID, event.Fingerprint, event)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, payload interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()
	span.SetAttributes(attrs...)

	eventBytes, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Debug(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
