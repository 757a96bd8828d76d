// Package logger configures the application slog.Logger and provides
// request-scoped logging for HTTP handlers.
//
// In dev and test environments logs are written with the tint handler
// (human readable, colored), everywhere else as JSON.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

// LevelNone disables logging (used by the integration tests to keep
// server output out of the test log).
const LevelNone = slog.Level(12)

// ParseLogLevel maps a LOG_LEVEL env value to a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		return LevelNone
	default:
		return slog.LevelInfo
	}
}

// InitLogger returns the application logger for the given environment.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "dev", "test":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// logAttrs collects extra attributes added by handlers/middleware during a
// request, included in the final request log line.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// RequestLogging returns a middleware that stores a request-scoped logger in
// the request context and logs one line per completed request.
//
// The request-scoped logger carries the chi request id so that handler logs
// can be correlated with the request log line.
func RequestLogging(appLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetReqID(r.Context())

			reqLogger := appLogger.With(slog.String("request_id", requestID))

			attrs := &logAttrs{}
			ctx := context.WithValue(r.Context(), requestLoggerKey, reqLogger)
			ctx = context.WithValue(ctx, logAttrsKey, attrs)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			logArgs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			}

			attrs.mu.Lock()
			for _, attr := range attrs.attrs {
				logArgs = append(logArgs, attr)
			}
			attrs.mu.Unlock()

			reqLogger.Info("request completed", logArgs...)
		})
	}
}

// ContextRequestLogger returns the request-scoped logger stored by
// RequestLogging, or slog.Default() if the middleware is not in the chain
// (e.g. in unit tests).
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if reqLogger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return reqLogger
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes to the final request log line.
// No-op if RequestLogging is not in the middleware chain.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	collector, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return
	}
	collector.mu.Lock()
	collector.attrs = append(collector.attrs, attrs...)
	collector.mu.Unlock()
}
