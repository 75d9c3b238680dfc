package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger creates a new zerolog logger with console output
func NewLogger() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}

// New creates a console logger writing to w at level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewLoggerWithLevel creates a new logger from a level name such as "debug".
// Unknown names fall back to info.
func NewLoggerWithLevel(level string) zerolog.Logger {
	return New(os.Stderr, ParseLevel(level))
}

func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
