package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("INSIGHTS_TOP_N", "")
	t.Setenv("MONGO_URI", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 5, cfg.Insights.TopN)
	assert.Equal(t, 48*time.Hour, cfg.Insights.DuplicateContactWindow())
	assert.Equal(t, 300.0, cfg.Transcription.MinDurationSeconds)
	assert.False(t, cfg.Mongo.Enabled())

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("INSIGHTS_TOP_N", "3")
	t.Setenv("FEEDBACK_DUPLICATE_CONTACT_WINDOW_HOURS", "24")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 3, cfg.Insights.TopN)
	assert.Equal(t, 24*time.Hour, cfg.Insights.DuplicateContactWindow())
	assert.True(t, cfg.Mongo.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
