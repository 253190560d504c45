// Package logging adapts zerolog to the types.Logger contract.
package logging

import (
	"io"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/rs/zerolog"
)

// Logger forwards go-notices log lines to a zerolog logger. Fields are
// alternating key/value pairs.
type Logger struct {
	log zerolog.Logger
}

// New wraps an existing zerolog logger.
func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

// NewWriter builds a JSON logger writing to w at the given level.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return New(zerolog.New(w).Level(level).With().Timestamp().Str("component", "go-notices").Logger())
}

var _ types.Logger = (*Logger)(nil)

// Debug implements types.Logger.
func (l *Logger) Debug(msg string, fields ...any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

// Info implements types.Logger.
func (l *Logger) Info(msg string, fields ...any) {
	l.log.Info().Fields(fields).Msg(msg)
}

// Error implements types.Logger.
func (l *Logger) Error(msg string, err error, fields ...any) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}
