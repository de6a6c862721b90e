package main

import (
	"testing"

	"message-api/config"
	"message-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsDatabaseStartupError(t *testing.T) {
	cfg := &config.Config{
		AppPort:      "0",
		AppMode:      "test",
		StoreBackend: "postgres",
		DBHost:       "127.0.0.1",
		DBPort:       "1",
		DBUser:       "none",
		DBPassword:   "none",
		DBName:       "none",
	}

	err := run(cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect database")
}

func TestRun_ReturnsRedisStartupError(t *testing.T) {
	cfg := &config.Config{
		AppPort:      "0",
		AppMode:      "test",
		StoreBackend: "memory",
		RedisEnabled: true,
		RedisHost:    "127.0.0.1",
		RedisPort:    "1",
	}

	err := run(cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis at 127.0.0.1:1")
}
