package auth

import (
	"context"
	"fmt"
	"log/slog"

	authservice "github.com/Black-And-White-Club/lensboard/app/modules/auth/application"
	authgotrue "github.com/Black-And-White-Club/lensboard/app/modules/auth/infrastructure/gotrue"
	authhandlers "github.com/Black-And-White-Club/lensboard/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/lensboard/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the guest identity module.
type Module struct {
	service  authservice.Service
	handlers authhandlers.Handlers
	logger   *slog.Logger
}

// NewModule creates the auth module and registers POST /api/session.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module", attr.String("auth_mode", cfg.Supabase.AuthMode))

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	var resolver authservice.TokenResolver
	switch cfg.Supabase.AuthMode {
	case config.AuthModeJWT, "":
		resolver = authservice.NewJWTResolver(jwtProvider)
	case config.AuthModeGoTrue:
		// Guest tokens are signed here, so the hosted server never knows their subject.
		resolver = authservice.NewChainResolver(
			authservice.NewJWTResolver(jwtProvider),
			authgotrue.NewResolver(cfg.Supabase.ProjectRef, cfg.Supabase.URL, cfg.Supabase.AnonKey),
		)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownAuthMode, cfg.Supabase.AuthMode)
	}

	service := authservice.NewService(
		jwtProvider,
		resolver,
		authservice.Config{GuestTTL: cfg.JWT.GuestTTL},
		logger,
		tracer,
	)
	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)

	if httpRouter != nil {
		limiter := httpx.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		httpRouter.Route("/api/session", func(r chi.Router) {
			r.Use(httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(httpx.RateLimitMiddleware(limiter))
			r.Post("/", handlers.HandleStartSession)
			r.Options("/", handlers.HandleStartSession)
		})
	}

	return &Module{
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Auth module stopped")
	return nil
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
