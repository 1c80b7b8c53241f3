package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/app/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config holds view settings.
type Config struct {
	DefaultLimit int
	CacheTTL     time.Duration
	Palette      ChartPalette
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      bun.IDB
	cfg     Config
	now     func() time.Time

	mu         sync.RWMutex
	cached     *cachedView
	generation uint64
}

// cachedView always holds the full unfiltered top MaxEntries.
type cachedView struct {
	board     leaderboarddomain.Leaderboard
	expiresAt time.Time
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db bun.IDB,
	cfg Config,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	cfg.DefaultLimit = leaderboarddomain.ClampLimit(cfg.DefaultLimit)
	if cfg.Palette == (ChartPalette{}) {
		cfg.Palette = DefaultPalette
	}
	return &LeaderboardService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Invalidate drops the cached view so the next read goes to the store.
func (s *LeaderboardService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.generation++
	s.mu.Unlock()
}

func (s *LeaderboardService) limitFor(q Query) int {
	if q.Limit == 0 {
		return s.cfg.DefaultLimit
	}
	return leaderboarddomain.ClampLimit(q.Limit)
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "LeaderboardService")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "LeaderboardService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
		return result, nil
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "LeaderboardService")
	return result, nil
}
