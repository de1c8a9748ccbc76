package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) (*Config, error) {
	t.Helper()
	return Parse(env.Options{Environment: vars})
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"DISCORD_TOKEN": "token",
		"OWNER_ID":      "1234",
	})
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.True(t, cfg.DeleteMessages)
	assert.False(t, cfg.DeleteInvoking)
	assert.False(t, cfg.DebugMode)
	assert.Empty(t, cfg.BoundChannels)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "config/permissions.toml", cfg.PermissionsPath)
	assert.True(t, cfg.IsBound("anything"))
}

func TestBoundChannels(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"DISCORD_TOKEN":  "token",
		"OWNER_ID":       "1234",
		"BOUND_CHANNELS": "111,222",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222"}, cfg.BoundChannels)
	assert.True(t, cfg.IsBound("222"))
	assert.False(t, cfg.IsBound("333"))
}

func TestDeleteInvokingNeedsDeleteMessages(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"DISCORD_TOKEN":   "token",
		"OWNER_ID":        "1234",
		"DELETE_MESSAGES": "false",
		"DELETE_INVOKING": "true",
	})
	require.NoError(t, err)
	assert.False(t, cfg.DeleteInvoking)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing token", map[string]string{"OWNER_ID": "1"}},
		{"missing owner", map[string]string{"DISCORD_TOKEN": "t"}},
		{"owner not a snowflake", map[string]string{"DISCORD_TOKEN": "t", "OWNER_ID": "bob"}},
		{"prefix with space", map[string]string{"DISCORD_TOKEN": "t", "OWNER_ID": "1", "COMMAND_PREFIX": "a b"}},
		{"bad log level", map[string]string{"DISCORD_TOKEN": "t", "OWNER_ID": "1", "LOG_LEVEL": "loud"}},
		{"bad bound channel", map[string]string{"DISCORD_TOKEN": "t", "OWNER_ID": "1", "BOUND_CHANNELS": "general"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.vars)
			assert.Error(t, err)
		})
	}
}
