package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "Asia/Tashkent", cfg.Timezone)
	assert.Equal(t, "09:00", cfg.DefaultOpenTime)
	assert.Equal(t, "20:00", cfg.DefaultCloseTime)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_TIMEOUT", "750ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 750*time.Millisecond, cfg.StorageTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad timezone":   {"TIMEZONE": "Mars/Olympus"},
		"bad open time":  {"DEFAULT_OPEN_TIME": "9am"},
		"inverted hours": {"DEFAULT_OPEN_TIME": "21:00", "DEFAULT_CLOSE_TIME": "20:00"},
		"bad timeout":    {"STORAGE_TIMEOUT": "soon"},
		"bad env":        {"APP_ENV": "staging"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
