package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

const (
	headerCapability = "capability"
	headerRecordedAt = "recorded_at"
)

// Publisher writes lookup events to a Kafka topic.
// It implements service.EventRecorder.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates an asynchronous producer for topic. Delivery results
// are logged and counted, never reported back to the caller.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	p := &Publisher{logger: logger, metrics: metrics}
	p.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   p.onCompletion,
	}
	return p
}

// Record enqueues one lookup event.
func (p *Publisher) Record(ctx context.Context, event domain.LookupEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) onCompletion(messages []kafkago.Message, err error) {
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues("error").Add(float64(len(messages)))
		p.logger.Error("publish lookup events failed", "count", len(messages), "topic", p.writer.Topic, "error", err)
		return
	}
	p.metrics.EventsPublished.WithLabelValues("success").Add(float64(len(messages)))
}

// serializeToMessage marshals a LookupEvent into a Kafka message keyed by the
// event ID.
func serializeToMessage(event domain.LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerCapability, Value: []byte(event.Capability)},
			{Key: headerRecordedAt, Value: []byte(event.RecordedAt.Format(time.RFC3339))},
		},
	}, nil
}
