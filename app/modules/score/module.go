package score

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the score submission module.
type Module struct {
	service  scoreservice.Service
	handlers scorehandlers.Handlers
	logger   *slog.Logger
}

// NewModule creates the score module and registers /submitScore.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	identity scorehandlers.IdentityResolver,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing score module")

	metrics := observability.NewNoopMetrics()
	if obs.Registry != nil {
		metrics = observability.NewOperationMetrics(obs.Registry, "score")
	}

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(db),
		logger,
		metrics,
		obs.Tracer,
		db,
		eventBus,
		scoreservice.Config{
			AnonymousName:  cfg.Submission.AnonymousName,
			AnonymousEmail: cfg.Submission.AnonymousEmail,
			OnePerSession:  cfg.Submission.OnePerSession,
		},
	)
	handlers := scorehandlers.NewScoreHandlers(service, identity, cfg.Submission.RequireIdentity, logger, obs.Tracer)

	if httpRouter != nil {
		limiter := httpx.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		httpRouter.Group(func(r chi.Router) {
			r.Use(httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(httpx.RateLimitMiddleware(limiter))
			r.Get("/submitScore", handlers.HandleSubmitScore)
			r.Post("/submitScore", handlers.HandleSubmitScore)
			r.Options("/submitScore", handlers.HandleSubmitScore)
		})
	}

	return &Module{
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// Close stops the score module.
func (m *Module) Close() error {
	m.logger.Info("Score module stopped")
	return nil
}

// GetService returns the score service for use by other modules.
func (m *Module) GetService() scoreservice.Service {
	return m.service
}
