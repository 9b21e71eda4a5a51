// Package logger is the structured logger of both processes: JSON slog
// records enriched with the OTel trace and the chi request id of the
// context they are logged with.
package logger

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/clickcollect/pkg/config"
)

// Logger is the logging surface passed to every component.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	// With binds key-value pairs to every record of the returned Logger.
	With(args ...any) Logger
}

const redacted = "[REDACTED]"

// secretKeys never reach the output with their value.
var secretKeys = map[string]bool{
	"password":               true,
	"database_url":           true,
	"dsn":                    true,
	"session_auth_key":       true,
	"session_encryption_key": true,
	"sentry_dsn":             true,
}

// New returns a Logger writing JSON to stdout at cfg.LogLevel.
func New(cfg *config.Config) Logger {
	return newLogger(os.Stdout, parseLevel(cfg.LogLevel))
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return newLogger(io.Discard, slog.LevelError)
}

func newLogger(w io.Writer, level slog.Level) Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: redact})
	return &slogLogger{Logger: slog.New(contextHandler{h})}
}

type slogLogger struct {
	*slog.Logger
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{Logger: l.Logger.With(args...)}
}

// contextHandler adds trace_id, span_id and request_id from the record's
// context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// redact masks secret keys and the password of any URL-shaped string value,
// so a connection string logged by mistake does not leak credentials.
func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if !strings.Contains(s, "://") || !strings.Contains(s, "@") {
		return a
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return a
	}
	if _, ok := u.User.Password(); !ok {
		return a
	}
	return slog.String(a.Key, u.Redacted())
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
