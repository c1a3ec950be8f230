// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrConfigExists is returned by WriteDefaultConfig when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

const configTemplate = `# config.toml - generated by streamrank config init

# Hostname / IP
# Default: "localhost"
host = %q

# Port
# Default: 7478
port = %d

# Base URL the API is served under
# Default: "/"
#baseUrl = "/"

# Log level
# Default: "INFO"
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
logLevel = "INFO"

# Log file path
# If not defined, logs to stdout
#logPath = "log/streamrank.log"

# Maximum log file size in megabytes before rotation
# Default: 50
#logMaxSize = 50

# Number of rotated log files to retain (0 keeps all)
# Default: 3
#logMaxBackups = 3

# API key required on every /api request (X-API-Key header or apikey query)
# Leave empty to disable authentication
#apiKey = ""

# Origins allowed to call the API from a browser
#corsAllowedOrigins = ["http://localhost:3000"]

# Expose Prometheus metrics on /metrics
#metricsEnabled = false

# Serve pprof profiles on a separate listener, for example "127.0.0.1:6060"
# Leave empty to disable
#pprofAddr = ""

# Premiumize API key, required for resolving stream links
#premiumizeApiKey = ""

# Seconds a single cache lookup may take, retries included
# Default: 15
#lookupTimeout = 15

# Attempts per cache lookup
# Default: 2
#lookupRetries = 2

# Concurrent cache lookups per resolve request
# Default: 3
#resolveWorkers = 3

# Stream links returned per resolve request
# Default: 5
#maxResults = 5
`

// RenderDefaultConfig returns the commented default config file.
func RenderDefaultConfig(host string, port int) string {
	if host == "" {
		host = defaults["host"].(string)
	}
	if port <= 0 {
		port = defaults["port"].(int)
	}
	return fmt.Sprintf(configTemplate, host, port)
}

// WriteDefaultConfig writes the default config file to path, creating its
// directory. It never overwrites an existing file.
func WriteDefaultConfig(path, host string, port int) error {
	path, err := ResolvePath(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return errors.Wrap(ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "could not create config directory for %s", path)
	}

	if err := os.WriteFile(path, []byte(RenderDefaultConfig(host, port)), 0o600); err != nil {
		return errors.Wrapf(err, "could not write config file %s", path)
	}

	return nil
}
