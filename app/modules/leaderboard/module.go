package leaderboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the leaderboard read module.
type Module struct {
	service leaderboardservice.Service
	router  *leaderboardrouter.LeaderboardRouter
	logger  *slog.Logger
}

// NewModule creates the leaderboard module, registers its HTTP routes and
// subscribes it to score events on the shared watermill router.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	wmRouter *message.Router,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing leaderboard module")

	metrics := observability.NewNoopMetrics()
	if obs.Registry != nil {
		metrics = observability.NewOperationMetrics(obs.Registry, "leaderboard")
	}

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		logger,
		metrics,
		obs.Tracer,
		db,
		leaderboardservice.Config{
			DefaultLimit: cfg.Leaderboard.Limit,
			CacheTTL:     cfg.Leaderboard.CacheTTL,
		},
	)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, obs.Tracer)

	var router *leaderboardrouter.LeaderboardRouter
	if wmRouter != nil && eventBus != nil {
		router = leaderboardrouter.NewLeaderboardRouter(logger, wmRouter, eventBus, obs.Tracer, obs.Registry)
		if err := router.Configure(ctx, handlers); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
	}

	if httpRouter != nil {
		limiter := httpx.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		httpRouter.Route("/api/leaderboard", func(r chi.Router) {
			r.Use(httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(httpx.RateLimitMiddleware(limiter))
			r.Get("/", handlers.HandleGetLeaderboard)
			r.Get("/chart.png", handlers.HandleChart)
			r.Get("/export.xlsx", handlers.HandleExport)
		})
	}

	return &Module{
		service: service,
		router:  router,
		logger:  logger,
	}, nil
}

// Close stops the leaderboard module. The shared watermill router is
// closed by its owner.
func (m *Module) Close() error {
	m.logger.Info("Leaderboard module stopped")
	return nil
}

// GetService returns the leaderboard service for use by other modules.
func (m *Module) GetService() leaderboardservice.Service {
	return m.service
}
