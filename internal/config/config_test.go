package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SL-MGx03/userbase/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "100,200")
	t.Setenv("DATABASE_URL", "userbase.db")
	t.Setenv("UPSERT_ERROR_POLICY", "")
	t.Setenv("MONITOR_INTERVAL_MINUTES", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("WEBAPP_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, []int64{100, 200}, cfg.AdminIDs)
	assert.Equal(t, "userbase.db", cfg.DatabaseURL)
	assert.Equal(t, config.PolicySwallow, cfg.UpsertErrorPolicy)
	assert.Equal(t, 30*time.Minute, cfg.MonitorInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.WebAppURL)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		unset  string
		errHas string
	}{
		{"missing token", "BOT_TOKEN", "BOT_TOKEN"},
		{"missing admins", "ADMIN_IDS", "ADMIN_IDS"},
		{"missing database", "DATABASE_URL", "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errHas)
		})
	}
}

func TestLoadUpsertErrorPolicy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPSERT_ERROR_POLICY", "reply")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.PolicyReply, cfg.UpsertErrorPolicy)

	t.Setenv("UPSERT_ERROR_POLICY", "retry")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoadMonitorInterval(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("MONITOR_INTERVAL_MINUTES", "5")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.MonitorInterval)

	t.Setenv("MONITOR_INTERVAL_MINUTES", "0")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.MonitorInterval)

	t.Setenv("MONITOR_INTERVAL_MINUTES", "-3")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestParseAdminIDs(t *testing.T) {
	ids, err := config.ParseAdminIDs(" 1, 2 ,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = config.ParseAdminIDs("")
	assert.Error(t, err)

	_, err = config.ParseAdminIDs("1,abc")
	assert.Error(t, err)

	_, err = config.ParseAdminIDs(",,")
	assert.Error(t, err)
}
