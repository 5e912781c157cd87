package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"SECRET_KEY": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "esports.db", cfg.DBName)
	assert.Equal(t, "./migrations", cfg.MigrationsDir)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, AdminConfig{Username: "admin", Password: "admin123"}, cfg.Admin)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.Slack.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"SECRET_KEY":       "s3cret",
		"PORT":             "9000",
		"MAX_UPLOAD_BYTES": "1024",
		"SESSION_TTL":      "90m",
		"ALLOWED_ORIGINS":  "https://a.example, https://b.example,",
		"SLACK_BOT_TOKEN":  "xoxb",
		"SLACK_CHANNEL_ID": "C1",
		"GCP_PROJECT":      "squad",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, "squad", cfg.ProjectID)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":   {},
		"bad upload limit": {"SECRET_KEY": "s", "MAX_UPLOAD_BYTES": "lots"},
		"bad session ttl":  {"SECRET_KEY": "s", "SESSION_TTL": "-1h"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}
