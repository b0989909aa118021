package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://tasklist.test/api", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "session.db", c.SessionDB)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://tasklist.test/api", cfg.ServerBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url": "http://from-json/api",
		"request_timeout": "30s",
		"log_level":       "warn",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://from-flag/api"}

	cfg := LoadConfig()

	assert.Equal(t, "http://from-flag/api", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "session.db", cfg.SessionDB)
}

func TestLoadConfig_FileTimeoutKeepsPrecision(t *testing.T) {
	tests := []struct {
		name  string
		value any
		args  []string
		want  time.Duration
	}{
		{"sub-second", "500ms", nil, 500 * time.Millisecond},
		{"fractional seconds", "1500ms", nil, 1500 * time.Millisecond},
		{"nanoseconds", 10, nil, 10 * time.Nanosecond},
		{"flag wins", "500ms", []string{"-t", "3"}, 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })

			path := writeTempJSON(t, "", "", map[string]any{"request_timeout": tt.value})
			os.Args = append([]string{"testbin", "-c", path}, tt.args...)

			cfg := LoadConfig()

			assert.Equal(t, tt.want, cfg.RequestTimeout)
		})
	}
}
