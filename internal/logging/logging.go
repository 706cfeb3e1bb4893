// Package logging adapts the teacher's Logger interface (LogRequest,
// LogError, LogInfo, LogHeaders) to a zerolog-backed implementation, so the
// HTTP driver (cmd/tdwresolve serve) gets structured fields (method, path,
// status, duration) instead of the teacher's hand-formatted text/JSONL
// lines, while resolution code talks to zerolog directly for per-step
// tracing (verification hashes, reducer transitions).
package logging

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the interface the HTTP driver logs through. Keeping this
// shape (rather than exposing zerolog.Logger everywhere) lets call sites
// stay agnostic of the backing implementation, same as the teacher's
// internal/logger.Logger.
type Logger interface {
	LogRequest(r *http.Request, status int, duration time.Duration)
	LogError(msg string, err error)
	LogInfo(msg string)
	LogHeaders(r *http.Request)
}

// ZerologLogger implements Logger on top of a zerolog.Logger.
type ZerologLogger struct {
	base zerolog.Logger
}

// New builds a ZerologLogger writing to w in the given level. A pretty
// console writer is used when pretty is true; otherwise structured JSON.
func New(w *os.File, level zerolog.Level, pretty bool) *ZerologLogger {
	var base zerolog.Logger
	if pretty {
		base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		base = zerolog.New(w).With().Timestamp().Logger()
	}
	return &ZerologLogger{base: base.Level(level)}
}

// NewFromLogger wraps an already-configured zerolog.Logger, for callers
// that build their logger once and want both the Logger interface and
// direct zerolog access from the same underlying sink.
func NewFromLogger(base zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{base: base}
}

// Base returns the underlying zerolog.Logger for components (internal/verify,
// internal/resolve) that want structured per-step debug events directly.
func (l *ZerologLogger) Base() zerolog.Logger { return l.base }

func (l *ZerologLogger) LogRequest(r *http.Request, status int, duration time.Duration) {
	l.base.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Dur("duration", duration).
		Msg("request")
}

func (l *ZerologLogger) LogError(msg string, err error) {
	l.base.Error().Err(err).Msg(msg)
}

func (l *ZerologLogger) LogInfo(msg string) {
	l.base.Info().Msg(msg)
}

func (l *ZerologLogger) LogHeaders(r *http.Request) {
	ev := l.base.Debug().Str("method", r.Method).Str("path", r.URL.Path)
	headers := zerolog.Dict()
	for name, values := range r.Header {
		if len(values) == 1 {
			headers = headers.Str(name, values[0])
		} else {
			headers = headers.Strs(name, values)
		}
	}
	ev.Dict("headers", headers).Msg("request headers")
}

// Middleware wraps an http.Handler, logging each request through logger.
// Grounded on the teacher's LoggingMiddleware, same responseWriter
// status-capture trick.
func Middleware(logger Logger, logHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			if logHeaders {
				logger.LogHeaders(r)
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			logger.LogRequest(r, wrapped.statusCode, time.Since(start))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
