// Package logger wraps zerolog with the constructors and context helpers
// used across the noteshare server.
//
// Logger embeds zerolog.Logger, so the full zerolog API is available on
// *Logger. Request-scoped loggers travel through context: middleware
// attaches an enriched child via zerolog's WithContext, handlers and
// services read it back with FromRequest or FromContext.
package logger

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a zerolog.Logger with application-level helpers attached.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds the root JSON logger for a process. Every entry carries
// a timestamp, the given role label and a "func" field with the
// fully-qualified caller name.
func NewLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}

	root := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{root}
}

// Nop returns a logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy inheriting all of the receiver's fields.
// Enriching the child (e.g. with a trace id) leaves the parent untouched.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the logger attached to the request's context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx. When none was attached,
// zerolog hands back its global logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
