//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"titling/internal/platform/config"
	audit "titling/pkg/platform/audit"
	"titling/pkg/testutil/containers"
)

func TestProducerPublishesKeyedEvents(t *testing.T) {
	kc := containers.NewKafkaContainer(t)
	defer func() { _ = kc.Container.Terminate(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.KafkaConfig{Brokers: []string{kc.Broker}, Topic: "customer.history.test"}
	p, err := New(cfg)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.EnsureTopic(ctx))
	require.NoError(t, p.EnsureTopic(ctx), "second call tolerates an existing topic")

	event := audit.Event{CustomerID: "c-1", Timestamp: "2024-01-01T00:00:00.000Z", User: "Sistema CRM", Description: "d"}
	require.NoError(t, p.Publish(ctx, []audit.Event{event}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(kc.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	assert.Equal(t, "c-1", string(records[0].Key))
	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event, got)
}

func TestNewWithoutBrokers(t *testing.T) {
	p, err := New(config.KafkaConfig{})
	assert.NoError(t, err)
	assert.Nil(t, p)
}
