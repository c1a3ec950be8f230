// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Version            string
	Host               string   `toml:"host" mapstructure:"host" yaml:"host"`
	Port               int      `toml:"port" mapstructure:"port" yaml:"port"`
	BaseURL            string   `toml:"baseUrl" mapstructure:"baseUrl" yaml:"baseUrl"`
	LogLevel           string   `toml:"logLevel" mapstructure:"logLevel" yaml:"logLevel"`
	LogPath            string   `toml:"logPath" mapstructure:"logPath" yaml:"logPath"`
	LogMaxSize         int      `toml:"logMaxSize" mapstructure:"logMaxSize" yaml:"logMaxSize"`
	LogMaxBackups      int      `toml:"logMaxBackups" mapstructure:"logMaxBackups" yaml:"logMaxBackups"`
	APIKey             string   `toml:"apiKey" mapstructure:"apiKey" yaml:"apiKey"`
	CORSAllowedOrigins []string `toml:"corsAllowedOrigins" mapstructure:"corsAllowedOrigins" yaml:"corsAllowedOrigins"`
	MetricsEnabled     bool     `toml:"metricsEnabled" mapstructure:"metricsEnabled" yaml:"metricsEnabled"`
	PprofAddr          string   `toml:"pprofAddr" mapstructure:"pprofAddr" yaml:"pprofAddr"`

	// Premiumize cache lookup provider. Resolving is disabled without a key.
	PremiumizeAPIKey  string `toml:"premiumizeApiKey" mapstructure:"premiumizeApiKey" yaml:"premiumizeApiKey"`
	PremiumizeBaseURL string `toml:"premiumizeBaseUrl" mapstructure:"premiumizeBaseUrl" yaml:"premiumizeBaseUrl"`

	// LookupTimeout is in seconds and covers one lookup including retries.
	LookupTimeout  int `toml:"lookupTimeout" mapstructure:"lookupTimeout" yaml:"lookupTimeout"`
	LookupRetries  int `toml:"lookupRetries" mapstructure:"lookupRetries" yaml:"lookupRetries"`
	ResolveWorkers int `toml:"resolveWorkers" mapstructure:"resolveWorkers" yaml:"resolveWorkers"`
	MaxResults     int `toml:"maxResults" mapstructure:"maxResults" yaml:"maxResults"`
}

var logLevels = map[string]struct{}{
	"TRACE": {},
	"DEBUG": {},
	"INFO":  {},
	"WARN":  {},
	"ERROR": {},
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.ResolveWorkers <= 0 {
		errs = append(errs, fmt.Errorf("resolveWorkers must be positive, got %d", c.ResolveWorkers))
	}
	if c.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("maxResults must be positive, got %d", c.MaxResults))
	}
	if c.LookupTimeout < 0 {
		errs = append(errs, fmt.Errorf("lookupTimeout must not be negative, got %d", c.LookupTimeout))
	}
	if c.LookupRetries < 0 {
		errs = append(errs, fmt.Errorf("lookupRetries must not be negative, got %d", c.LookupRetries))
	}
	if _, ok := logLevels[strings.ToUpper(strings.TrimSpace(c.LogLevel))]; !ok {
		errs = append(errs, fmt.Errorf("unknown logLevel %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// ResolveEnabled reports whether a provider key is configured.
func (c *Config) ResolveEnabled() bool {
	return strings.TrimSpace(c.PremiumizeAPIKey) != ""
}

// LookupTimeoutDuration returns LookupTimeout as a duration.
func (c *Config) LookupTimeoutDuration() time.Duration {
	return time.Duration(c.LookupTimeout) * time.Second
}
