package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string
	Sheets   SheetsConfig
	History  HistoryConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// SheetsConfig points at the remote persistence endpoint.
type SheetsConfig struct {
	URL     string
	Timeout time.Duration
}

// HistoryConfig controls change-log attribution and the retry worker.
type HistoryConfig struct {
	User          string
	CSVUser       string
	RetryInterval time.Duration
	RetryBatch    int
}

// RedisConfig backs the history retry queue. An empty URL selects the
// in-memory queue.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig backs the change-log archive. An empty URL disables it.
type PostgresConfig struct {
	URL string
}

// KafkaConfig backs change-log publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:     getEnv("TITLING_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Sheets: SheetsConfig{
			URL:     os.Getenv("SHEETS_API_URL"),
			Timeout: getDuration("SHEETS_API_TIMEOUT", 30*time.Second),
		},
		History: HistoryConfig{
			User:          getEnv("HISTORY_USER", "Sistema CRM"),
			CSVUser:       getEnv("HISTORY_CSV_USER", "Sistema CRM (CSV)"),
			RetryInterval: getDuration("HISTORY_RETRY_INTERVAL", time.Minute),
			RetryBatch:    getInt("HISTORY_RETRY_BATCH", 50),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: getList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_HISTORY_TOPIC", "customer.history"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
