//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/surf-buddy/internal/adapter/kafka"
	"github.com/couchcryptid/surf-buddy/internal/config"
	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/couchcryptid/surf-buddy/internal/observability"
	"github.com/couchcryptid/surf-buddy/internal/poller"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-surf-conditions"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("surf-buddy-test"))
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

type fixedSource struct{}

func (fixedSource) LatestObservation(_ context.Context, station string) (domain.Observation, error) {
	wave, period, wind := 2.1, 12.0, 6.0
	return domain.Observation{
		Station:         station,
		ObservedAt:      time.Date(2026, 10, 14, 18, 40, 0, 0, time.UTC),
		WaveHeightM:     &wave,
		DominantPeriodS: &period,
		WindSpeedMS:     &wind,
	}, nil
}

// TestConditionsFeed polls two stations and verifies both snapshots arrive on
// the topic keyed by station with the expected headers.
func TestConditionsFeed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	store := poller.NewStore()
	p := poller.New(fixedSource{}, store, []string{"46206", "46026"}, time.Minute,
		discardLogger(), observability.NewMetricsForTesting(), poller.WithLoader(writer))

	round, err := p.PollOnce(ctx)
	require.NoError(t, err)
	require.Len(t, round, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-feed-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string]domain.ConditionsSnapshot{}
	for len(got) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from conditions topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, string(msg.Key), headers["station"])
		assert.Equal(t, "2026-10-14T18:40:00Z", headers["observed_at"])

		var snap domain.ConditionsSnapshot
		require.NoError(t, json.Unmarshal(msg.Value, &snap))
		got[snap.Station] = snap
	}

	for _, want := range round {
		snap, ok := got[want.Station]
		require.True(t, ok, "missing snapshot for %s", want.Station)
		assert.Equal(t, want.ID, snap.ID)
		assert.InDelta(t, want.Conditions.WaveHeightFt, snap.Conditions.WaveHeightFt, 1e-9)
		assert.True(t, snap.Conditions.Usable())

		stored, ok := store.Latest(want.Station)
		require.True(t, ok)
		assert.Equal(t, want.ID, stored.ID)
	}
}
