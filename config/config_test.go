package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "omnipos_stock", cfg.Postgres.DBName)
	assert.True(t, cfg.Postgres.AutoMigrate)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 30, cfg.Redis.LockTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg := LoadEnv()

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.True(t, cfg.Kafka.Enabled)
}
