package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squash-courts/backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "squash-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 3, cfg.App.SuggestionCount)
	assert.Equal(t, "Africa/Cairo", cfg.App.Timezone)
	assert.Equal(t, "squash-test", cfg.Firebase.ProjectID)
	assert.Equal(t, "squash-test.appspot.com", cfg.Firebase.StorageBucket)
	assert.Equal(t, "", cfg.RedisAddr())
}

func TestLoad_GoogleCloudProjectFallback(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "from-cloud-run")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-cloud-run", cfg.Firebase.ProjectID)
}

func TestAllowedOrigins(t *testing.T) {
	var cfg config.Config
	cfg.App.CORS.AllowedOrigins = " https://a.example , ,https://b.example"

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestRedisAddr(t *testing.T) {
	var cfg config.Config
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = "6380"

	assert.Equal(t, "localhost:6380", cfg.RedisAddr())
}
