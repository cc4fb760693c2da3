package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TITLING_ADDR", "SHEETS_API_TIMEOUT", "HISTORY_USER", "HISTORY_RETRY_BATCH", "KAFKA_BROKERS", "KAFKA_HISTORY_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, "Sistema CRM", cfg.History.User)
	assert.Equal(t, 50, cfg.History.RetryBatch)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "customer.history", cfg.Kafka.Topic)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SHEETS_API_URL", "https://example.test/exec")
	t.Setenv("SHEETS_API_TIMEOUT", "5s")
	t.Setenv("HISTORY_RETRY_BATCH", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg := FromEnv()

	assert.Equal(t, "https://example.test/exec", cfg.Sheets.URL)
	assert.Equal(t, 5*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, 50, cfg.History.RetryBatch)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}
