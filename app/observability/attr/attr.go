package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationKey struct{}

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored on ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// ExtractCorrelationID returns the correlation ID as a log attribute.
// The zero Attr is returned when none is set, which slog drops.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("correlation_id", id)
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns an "error" attribute. A nil error yields the zero Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}
