package observability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records the lifecycle of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

type prometheusOperationMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewOperationMetrics registers operation collectors under the given subsystem.
// Registering the same subsystem twice reuses the existing collectors.
func NewOperationMetrics(reg prometheus.Registerer, subsystem string) OperationMetrics {
	labels := []string{"service", "operation"}
	m := &prometheusOperationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lensboard",
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lensboard",
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lensboard",
			Subsystem: subsystem,
			Name:      "operation_failures_total",
			Help:      "Number of service operations that failed or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lensboard",
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	m.attempts = registerOrReuse(reg, m.attempts)
	m.successes = registerOrReuse(reg, m.successes)
	m.failures = registerOrReuse(reg, m.failures)
	m.duration = registerOrReuse(reg, m.duration)
	return m
}

// RegisterOrReuse registers c, returning the already registered collector on conflict.
func RegisterOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	return registerOrReuse(reg, c)
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *prometheusOperationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *prometheusOperationMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

// NewNoopMetrics returns an OperationMetrics that records nothing.
func NewNoopMetrics() OperationMetrics { return NoopMetrics{} }

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
