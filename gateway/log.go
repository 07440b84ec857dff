package gateway

import (
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Str("pkg", "gateway").Logger().Level(zerolog.WarnLevel)

// SetLogger replaces the package logger.
func SetLogger(logger zerolog.Logger) {
	log = logger
}

// SetLogLevel adjusts the package log level.
func SetLogLevel(level zerolog.Level) {
	log = log.Level(level)
}
