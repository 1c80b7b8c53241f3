package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// StartGuestSession mints a guest identity carrying the player's name and email.
	StartGuestSession(ctx context.Context, name, email string) (*GuestSession, error)

	// ResolveBearer turns an Authorization header value into an identity.
	// Returns ErrMissingToken for an empty header and ErrUnauthorized for anything unusable.
	ResolveBearer(ctx context.Context, header string) (*authdomain.Identity, error)
}

// TokenResolver verifies an access token and returns its claims.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*authdomain.Claims, error)
}

// GuestSession is returned when a guest signs in.
type GuestSession struct {
	Token     string    `json:"token"`
	PlayerID  string    `json:"player_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
