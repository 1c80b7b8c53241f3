package leaderboardrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	leaderboardhandlers "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/handlers"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// LeaderboardRouter binds score events to the leaderboard's event handlers.
type LeaderboardRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new instance of the router.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *LeaderboardRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the middlewares and registers the module's event handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		observability.TraceHandler(r.tracer),
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their handlers.
func (r *LeaderboardRouter) RegisterHandlers(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Leaderboard Event Handlers")

	r.Router.AddConsumerHandler(
		"leaderboard."+scoredomain.ScoreSubmittedV1,
		scoredomain.ScoreSubmittedV1,
		r.subscriber,
		handlers.HandleScoreSubmitted,
	)
	return nil
}

// Close stops the router and cleans up resources.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
