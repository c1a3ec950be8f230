// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/autobrr/streamrank/internal/buildinfo"
	"github.com/autobrr/streamrank/internal/domain"
	"github.com/autobrr/streamrank/pkg/debounce"
	"github.com/autobrr/streamrank/pkg/debrid/premiumize"
)

const (
	appName        = "streamrank"
	envPrefix      = "STREAMRANK__"
	configFileName = "config.toml"
	reloadDelay    = 250 * time.Millisecond
)

var defaults = map[string]any{
	"host":               "localhost",
	"port":               7478,
	"baseUrl":            "/",
	"logLevel":           "INFO",
	"logPath":            "",
	"logMaxSize":         50,
	"logMaxBackups":      3,
	"apiKey":             "",
	"corsAllowedOrigins": []string{},
	"metricsEnabled":     false,
	"pprofAddr":          "",
	"premiumizeApiKey":   "",
	"premiumizeBaseUrl":  premiumize.DefaultBaseURL,
	"lookupTimeout":      15,
	"lookupRetries":      premiumize.DefaultRetryAttempts,
	"resolveWorkers":     3,
	"maxResults":         5,
}

// AppConfig is the loaded configuration together with its source.
type AppConfig struct {
	Config *domain.Config

	mu         sync.RWMutex
	viper      *viper.Viper
	configPath string
	fileLoaded bool
}

// New loads configuration from configPath, which may be a config.toml file or
// the directory holding one. An empty path uses the default config directory.
// A missing file is not an error; defaults and environment variables apply.
func New(configPath string) (*AppConfig, error) {
	path, err := ResolvePath(configPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key := range defaults {
		if err := v.BindEnv(key, envVarName(key)); err != nil {
			return nil, errors.Wrapf(err, "could not bind env for %s", key)
		}
	}

	c := &AppConfig{
		viper:      v,
		configPath: path,
	}

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", path)
		}
		c.fileLoaded = true
	} else if !os.IsNotExist(statErr) {
		return nil, errors.Wrapf(statErr, "could not stat config file %s", path)
	}

	cfg, err := c.decode()
	if err != nil {
		return nil, err
	}
	c.Config = cfg

	return c, nil
}

func (c *AppConfig) decode() (*domain.Config, error) {
	var cfg domain.Config
	if err := c.viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "could not decode config")
	}

	cfg.Version = buildinfo.Version
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	cfg.CORSAllowedOrigins = cleanList(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// Path returns the config file location, whether or not it exists.
func (c *AppConfig) Path() string {
	return c.configPath
}

// FileLoaded reports whether a config file was read.
func (c *AppConfig) FileLoaded() bool {
	return c.fileLoaded
}

// Current returns the active configuration.
func (c *AppConfig) Current() *domain.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// Watch reloads the config file on change and calls onChange with the new
// configuration. Bursts of writes reload once. Invalid edits are logged and ignored.
func (c *AppConfig) Watch(onChange func(*domain.Config)) {
	if !c.fileLoaded {
		return
	}

	reloads := debounce.New(reloadDelay)
	c.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		reloads.Do(func() { c.reload(e.Name, onChange) })
	})
	c.viper.WatchConfig()
}

func (c *AppConfig) reload(path string, onChange func(*domain.Config)) {
	cfg, err := c.decode()
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Ignoring invalid config change")
		return
	}

	c.mu.Lock()
	c.Config = cfg
	c.mu.Unlock()

	log.Info().Str("path", path).Msg("Config reloaded")
	if onChange != nil {
		onChange(cfg)
	}
}

// ResolvePath maps a config file or directory argument to the config.toml location.
func ResolvePath(configPath string) (string, error) {
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		dir := getDefaultConfigDir()
		if dir == "" {
			return "", errors.New("could not determine config directory")
		}
		return filepath.Join(dir, configFileName), nil
	}

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		return configPath, nil
	}
	return filepath.Join(configPath, configFileName), nil
}

// getDefaultConfigDir returns $XDG_CONFIG_HOME/streamrank, or $XDG_CONFIG_HOME
// itself when it is /config as in the container image.
func getDefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if filepath.Clean(xdg) == "/config" {
			return "/config"
		}
		return filepath.Join(xdg, appName)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName)
}

// envVarName maps a camelCase key to STREAMRANK__UPPER_SNAKE.
func envVarName(key string) string {
	var b strings.Builder
	b.WriteString(envPrefix)

	runes := []rune(key)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}

	return b.String()
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
