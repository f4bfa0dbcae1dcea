package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "REQUEST_TIMEOUT_MS", "CONSUMER_ENABLED", "CONSUMER_WORKERS", "ES_INDEX"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.ConsumerEnabled)
	assert.Equal(t, 1, cfg.ConsumerWorkers)
	assert.Equal(t, "products", cfg.ESIndex)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("ES_ADDRESSES", "http://a:9200,http://b:9200")
	t.Setenv("REQUEST_TIMEOUT_MS", "250")
	t.Setenv("SHUTDOWN_TIMEOUT", "9")
	t.Setenv("CONSUMER_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.ESAddresses)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 9*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.ConsumerEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "lots")
	t.Setenv("MIGRATE_ON_START", "maybe")

	cfg := Load()

	assert.Equal(t, 8, cfg.PostgresMaxConns)
	assert.True(t, cfg.MigrateOnStart)
}
