// Package logging wraps zerolog for envtool.
//
// Diagnostics (remote failures, skipped removals, watcher reruns) go to
// stderr through the default logger so that command output on stdout stays
// clean for piping:
//
//	log := logging.FromContext(ctx)
//	log.Warn().Str("target", "wrangler").Err(err).Msg("remote list failed")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Nop discards everything.
var Nop = zerolog.Nop()

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := NewLoggerFromConfig(FromEnv())
	current.Store(&l)
}

// FromEnv builds a Config from LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and
// NO_COLOR. DEBUG set to anything turns on debug when LOG_LEVEL is empty.
func FromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return current.Load()
}

// SetDefault replaces the process-wide logger, including zerolog/log's.
func SetDefault(logger zerolog.Logger) {
	current.Store(&logger)
	log.Logger = logger
}

// Warn starts a warning on the default logger.
func Warn() *zerolog.Event {
	return Default().Warn()
}

// Error starts an error on the default logger.
func Error() *zerolog.Event {
	return Default().Error()
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
