package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. level is one of debug, info, warn, error
// (anything else means info); format is json or console.
func Init(level, format string) {
	InitWithWriter(level, format, os.Stderr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(level, format string, out io.Writer) {
	logLevel := zerolog.InfoLevel
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// Get returns a reference to the global logger
func Get() *zerolog.Logger {
	return &log.Logger
}

// Component returns a child of the global logger tagged with a component name,
// e.g. "OSSPlugin" or "OSSPlugin:OSS".
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
