package core

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface so worker
// and coordinator code can depend on the narrow Printf contract while still
// getting structured, leveled output in production.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger builds a ZerologLogger writing human-readable console
// output to w at the given level.
func NewZerologLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &ZerologLogger{log: zerolog.New(console).Level(level).With().Timestamp().Logger()}
}

// DefaultLogger returns a ZerologLogger writing to stderr at info level,
// for call sites that only need "just log something reasonable."
func DefaultLogger() *ZerologLogger {
	return NewZerologLogger(os.Stderr, zerolog.InfoLevel)
}

// Printf implements Logger by routing the formatted message through
// zerolog's Info level. Callers that need a specific level construct their
// own *zerolog.Logger via Zerolog() instead.
func (l *ZerologLogger) Printf(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

// Zerolog exposes the underlying structured logger for call sites that want
// leveled fields (worker connection lifecycle, protocol errors) rather than
// the plain Printf contract.
func (l *ZerologLogger) Zerolog() *zerolog.Logger {
	return &l.log
}
