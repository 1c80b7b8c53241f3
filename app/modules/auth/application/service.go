package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/lensboard/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config holds service configuration.
type Config struct {
	GuestTTL time.Duration
}

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	resolver    TokenResolver
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewService creates a new auth service. Guest tokens are always minted by
// jwtProvider; bearer tokens are verified by resolver.
func NewService(
	jwtProvider authjwt.Provider,
	resolver TokenResolver,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	if config.GuestTTL <= 0 {
		config.GuestTTL = 24 * time.Hour
	}
	if resolver == nil {
		resolver = NewJWTResolver(jwtProvider)
	}
	return &service{
		jwtProvider: jwtProvider,
		resolver:    resolver,
		config:      config,
		logger:      logger,
		tracer:      tracer,
		now:         time.Now,
	}
}

// StartGuestSession mints a guest token whose metadata carries the player's name and email.
func (s *service) StartGuestSession(ctx context.Context, name, email string) (*GuestSession, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.StartGuestSession")
	defer span.End()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidGuest
	}

	claims := &authdomain.Claims{
		Subject:   uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      authdomain.RoleAuthenticated,
		SessionID: uuid.NewString(),
		Anonymous: true,
	}

	token, err := s.jwtProvider.GenerateToken(claims, s.config.GuestTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerateToken, err)
	}

	span.SetAttributes(attribute.String("player_id", claims.Subject))
	s.logger.InfoContext(ctx, "Guest session started",
		attr.ExtractCorrelationID(ctx),
		attr.String("player_id", claims.Subject),
	)

	return &GuestSession{
		Token:     token,
		PlayerID:  claims.Subject,
		SessionID: claims.SessionID,
		ExpiresAt: s.now().Add(s.config.GuestTTL).UTC(),
	}, nil
}

// ResolveBearer resolves an Authorization header into an identity.
func (s *service) ResolveBearer(ctx context.Context, header string) (*authdomain.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ResolveBearer")
	defer span.End()

	if strings.TrimSpace(header) == "" {
		return nil, ErrMissingToken
	}

	token, ok := httpx.BearerToken(header)
	if !ok {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	}

	claims, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "Bearer token rejected",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.IsExpired() {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, authjwt.ErrExpiredToken)
	}

	identity := claims.Identity()
	span.SetAttributes(attribute.String("player_id", identity.PlayerID))
	return &identity, nil
}

// jwtResolver adapts a JWT provider to TokenResolver.
type jwtResolver struct {
	provider authjwt.Provider
}

// NewJWTResolver verifies tokens locally with the shared secret.
func NewJWTResolver(provider authjwt.Provider) TokenResolver {
	return &jwtResolver{provider: provider}
}

func (r *jwtResolver) Resolve(ctx context.Context, token string) (*authdomain.Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	claims, err := r.provider.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errors.New("provider returned no claims")
	}
	return claims, nil
}

// chainResolver tries local verification before asking the remote resolver.
type chainResolver struct {
	local  TokenResolver
	remote TokenResolver
}

// NewChainResolver accepts tokens this service signed through local and
// defers every other token to remote. An expired local token is rejected
// without a remote call.
func NewChainResolver(local, remote TokenResolver) TokenResolver {
	return &chainResolver{local: local, remote: remote}
}

func (r *chainResolver) Resolve(ctx context.Context, token string) (*authdomain.Claims, error) {
	claims, err := r.local.Resolve(ctx, token)
	if err == nil {
		return claims, nil
	}
	if errors.Is(err, authjwt.ErrExpiredToken) || ctx.Err() != nil {
		return nil, err
	}
	return r.remote.Resolve(ctx, token)
}
