package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "service-key", cfg.SupabaseKey)
	assert.Equal(t, "debug", cfg.LogLvl)
}

func TestLoadConfigDefaultLogLevel(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLvl)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "no bot token", missing: "TELEGRAM_BOT_TOKEN"},
		{name: "no supabase url", missing: "SUPABASE_URL"},
		{name: "no supabase key", missing: "SUPABASE_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			t.Setenv("SUPABASE_URL", "https://example.supabase.co")
			t.Setenv("SUPABASE_KEY", "service-key")
			t.Setenv(tt.missing, "")

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}
