package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"HTTP_PORT", "DB_DRIVER", "DB_PORT", "OUTBOX_BATCH_SIZE", "LOG_LEVEL", "KAFKA_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.KafkaHost)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 40, cfg.Database().MaxOpenConns)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("DB_DRIVER", "oracle")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("OUTBOX_BATCH_SIZE", "many")
	_, err = LoadConfig()
	require.Error(t, err)
}
