// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/streamrank/internal/domain"
	"github.com/autobrr/streamrank/pkg/debrid/premiumize"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.False(t, cfg.FileLoaded())
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Path())

	c := cfg.Config
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, 7478, c.Port)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, 3, c.ResolveWorkers)
	assert.Equal(t, 5, c.MaxResults)
	assert.Equal(t, 15*time.Second, c.LookupTimeoutDuration())
	assert.Equal(t, premiumize.DefaultRetryAttempts, c.LookupRetries)
	assert.Equal(t, premiumize.DefaultBaseURL, c.PremiumizeBaseURL)
	assert.False(t, c.ResolveEnabled())
	assert.Empty(t, c.CORSAllowedOrigins)
}

func TestNew_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
host = "0.0.0.0"
port = 9000
logLevel = "debug"
premiumizeApiKey = "pm-key"
resolveWorkers = 6
maxResults = 2
corsAllowedOrigins = ["https://a.example", " ", "https://b.example"]
`)

	cfg, err := New(path)
	require.NoError(t, err)

	assert.True(t, cfg.FileLoaded())
	assert.Equal(t, "0.0.0.0", cfg.Config.Host)
	assert.Equal(t, 9000, cfg.Config.Port)
	assert.Equal(t, "DEBUG", cfg.Config.LogLevel)
	assert.Equal(t, 6, cfg.Config.ResolveWorkers)
	assert.Equal(t, 2, cfg.Config.MaxResults)
	assert.True(t, cfg.Config.ResolveEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Config.CORSAllowedOrigins)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
port = 9000
premiumizeApiKey = "from-file"
`)

	t.Setenv("STREAMRANK__PORT", "9100")
	t.Setenv("STREAMRANK__PREMIUMIZE_API_KEY", "from-env")
	t.Setenv("STREAMRANK__METRICS_ENABLED", "true")
	t.Setenv("STREAMRANK__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Config.Port)
	assert.Equal(t, "from-env", cfg.Config.PremiumizeAPIKey)
	assert.True(t, cfg.Config.MetricsEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Config.CORSAllowedOrigins)
}

func TestNew_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `resolveWorkers = 0`)

	_, err := New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolveWorkers")
}

func TestNew_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `port = = 1`)

	_, err := New(dir)
	require.Error(t, err)
}

func TestDockerEnvironmentCompatibility(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/config")
	assert.Equal(t, "/config", getDefaultConfigDir(), "Docker environment should use /config directly")

	t.Setenv("XDG_CONFIG_HOME", "/home/user/.config")
	assert.Equal(t, filepath.Join("/home/user/.config", "streamrank"), getDefaultConfigDir())
}

func TestEnvVarName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"host":               "STREAMRANK__HOST",
		"baseUrl":            "STREAMRANK__BASE_URL",
		"logMaxBackups":      "STREAMRANK__LOG_MAX_BACKUPS",
		"premiumizeApiKey":   "STREAMRANK__PREMIUMIZE_API_KEY",
		"corsAllowedOrigins": "STREAMRANK__CORS_ALLOWED_ORIGINS",
		"apiKey":             "STREAMRANK__API_KEY",
	}

	for key, want := range tests {
		assert.Equal(t, want, envVarName(key), key)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trace", ParseLogLevel("TRACE").String())
	assert.Equal(t, "debug", ParseLogLevel("debug").String())
	assert.Equal(t, "warn", ParseLogLevel("WARN").String())
	assert.Equal(t, "error", ParseLogLevel("ERROR").String())
	assert.Equal(t, "info", ParseLogLevel("").String())
	assert.Equal(t, "info", ParseLogLevel("LOUD").String())
}

func TestAppConfig_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `logLevel = "INFO"`)

	cfg, err := New(dir)
	require.NoError(t, err)

	writeConfig(t, dir, `logLevel = "debug"`)
	require.NoError(t, cfg.viper.ReadInConfig())

	var got *domain.Config
	cfg.reload(path, func(c *domain.Config) { got = c })
	require.NotNil(t, got)
	assert.Equal(t, "DEBUG", got.LogLevel)
	assert.Same(t, got, cfg.Current())

	writeConfig(t, dir, `port = 0`)
	require.NoError(t, cfg.viper.ReadInConfig())

	called := false
	cfg.reload(path, func(*domain.Config) { called = true })
	assert.False(t, called, "invalid config must not be applied")
	assert.Equal(t, "DEBUG", cfg.Current().LogLevel)
}
