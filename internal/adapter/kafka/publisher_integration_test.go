//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/thejokers69/Weather-MCP-Server/internal/adapter/kafka"
	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

const testTopic = "test-weather-lookups"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("weather-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisher_RoundTrip publishes a lookup event and reads it back from the
// topic with its key and headers intact.
func TestPublisher_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	metrics := observability.NewMetricsForTesting()
	pub := kafka.NewPublisher([]string{broker}, testTopic, discardLogger(), metrics)

	event := domain.NewLookupEvent(domain.CapabilityAlerts, "CA", 250*time.Millisecond, nil)
	require.NoError(t, pub.Record(ctx, event))
	require.NoError(t, pub.Close(), "close flushes the async writer")

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MaxWait:   time.Second,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read from lookup topic")

	assert.Equal(t, event.ID, string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "alerts", headers["capability"])
	assert.Equal(t, event.RecordedAt.Format(time.RFC3339), headers["recorded_at"])

	var got domain.LookupEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, domain.OutcomeOK, got.Outcome)
	assert.Equal(t, "CA", got.Input)
	assert.Equal(t, 250*time.Millisecond, got.Duration)
}
