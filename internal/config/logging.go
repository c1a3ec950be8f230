// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/autobrr/streamrank/internal/domain"
)

// ParseLogLevel maps a config log level to zerolog. Unknown values mean info.
func ParseLogLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogging points the global logger at stdout and, when logPath is set, a
// rotated log file. The returned closer flushes the file writer.
func SetupLogging(cfg *domain.Config) (io.Closer, error) {
	writers := []io.Writer{consoleWriter(os.Stdout)}

	var file *lumberjack.Logger
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "could not create log directory for %s", cfg.LogPath)
		}
		file = &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
		}
		writers = append(writers, file)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLogLevel(cfg.LogLevel))
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	if file == nil {
		return nopCloser{}, nil
	}
	return file, nil
}

// ApplyLogLevel changes the global level after a config reload.
func ApplyLogLevel(cfg *domain.Config) {
	level := ParseLogLevel(cfg.LogLevel)
	if zerolog.GlobalLevel() == level {
		return
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("Log level changed")
}

// consoleWriter returns a human readable writer on a terminal and w itself otherwise.
func consoleWriter(w *os.File) io.Writer {
	if term.IsTerminal(int(w.Fd())) {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
