// Package sysutil holds process-level helpers for the server binary:
// global logger setup and build version resolution.
package sysutil

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a LOG_LEVEL value (case-insensitive, "warning" accepted)
// to a zerolog level. Empty or unknown values map to info.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogLevel configures the global zerolog level.
func SetLogLevel(lvl string) {
	zerolog.SetGlobalLevel(ParseLevel(lvl))
}

// ConfigureLogger replaces the global logger with one writing to w, either
// as JSON lines or, when pretty is set, through a console writer.
func ConfigureLogger(w io.Writer, level string, pretty bool) {
	SetLogLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// BuildVersion returns the first non-blank candidate, or "dev".
func BuildVersion(candidates ...string) string {
	for _, v := range candidates {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "dev"
}
