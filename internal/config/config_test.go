package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("development", "testdata/config.toml")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "./assets/workout_plan.json", cfg.WorkoutPlanPath)
	assert.Equal(t, 10, cfg.QuoteRateLimitedPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", "testdata/config.toml")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "/var/log/revolveme/service.log", cfg.LogsPath)
}

func TestLoad_UnknownEnv(t *testing.T) {
	cfg, err := Load("staging", "testdata/config.toml")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("development", "testdata/nope.toml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
