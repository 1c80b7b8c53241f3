package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the logger, tracer and metrics registry shared by modules.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// New builds the process-wide observability stack.
func New(cfg config.ObservabilityConfig) Observability {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit log destination.
func NewWithWriter(cfg config.ObservabilityConfig, w io.Writer) Observability {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Environment == "development" || cfg.Environment == "dev" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "lensboard"
	}

	logger := slog.New(handler).With(
		slog.String("service", service),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(service),
		Registry: registry,
	}
}

// NewNoop returns an Observability that discards logs and spans.
func NewNoop() Observability {
	return Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:   noop.NewTracerProvider().Tracer("noop"),
		Registry: prometheus.NewRegistry(),
	}
}
