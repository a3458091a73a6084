package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORE", "")

		cfg, err := Load()
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, MemoryStore, cfg.Store.Kind)
		assert.Equal(t, uint(3), cfg.Runtime.Attempts)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Kafka.Enabled)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("STORE", "redis")
		t.Setenv("REDIS_ADDR", "cache:6380")
		t.Setenv("CALL_ATTEMPTS", "7")
		t.Setenv("LOG_PRETTY", "true")
		t.Setenv("KAFKA_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", "one:9092, two:9092,")

		cfg, err := Load()
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, RedisStore, cfg.Store.Kind)
		assert.Equal(t, "cache:6380", cfg.Store.RedisAddr)
		assert.Equal(t, uint(7), cfg.Runtime.Attempts)
		assert.True(t, cfg.Log.Pretty)
		assert.Equal(t, []string{"one:9092", "two:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("CALL_ATTEMPTS", "lots")
		t.Setenv("LOG_PRETTY", "maybe")

		cfg, err := Load()
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, uint(3), cfg.Runtime.Attempts)
		assert.False(t, cfg.Log.Pretty)
	})

	t.Run("rejects unknown stores", func(t *testing.T) {
		t.Setenv("STORE", "floppy")

		_, err := Load()
		assert.NotNil(t, err)
	})

	t.Run("rejects zero attempts", func(t *testing.T) {
		t.Setenv("CALL_ATTEMPTS", "0")

		_, err := Load()
		assert.NotNil(t, err)
	})
}
