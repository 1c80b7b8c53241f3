package authgotrue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// ErrUnknownUser is returned when the hosted auth server does not recognise a token.
var ErrUnknownUser = errors.New("token not recognised by auth server")

// UserLookup fetches the user that owns an access token.
type UserLookup func(token string) (*types.UserResponse, error)

// Resolver resolves bearer tokens by asking the hosted auth server who owns them.
type Resolver struct {
	lookup UserLookup
}

// NewResolver creates a Resolver for a hosted project. A non-empty baseURL
// points the client at a self-hosted auth server instead of the project host.
func NewResolver(projectRef, baseURL, anonKey string) *Resolver {
	client := gotrue.New(projectRef, anonKey)
	if baseURL != "" {
		client = client.WithCustomGoTrueURL(strings.TrimRight(baseURL, "/") + "/auth/v1")
	}
	return &Resolver{
		lookup: func(token string) (*types.UserResponse, error) {
			return client.WithToken(token).GetUser()
		},
	}
}

// NewResolverWithLookup creates a Resolver around an arbitrary lookup.
func NewResolverWithLookup(lookup UserLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the claims for the token owner.
func (r *Resolver) Resolve(ctx context.Context, token string) (*authdomain.Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := r.lookup(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownUser, err)
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return claimsFromUser(user), nil
}

func claimsFromUser(user *types.UserResponse) *authdomain.Claims {
	name, email := authdomain.NameAndEmail(user.UserMetadata, user.Email)
	role := authdomain.Role(user.Role)
	if role == "" {
		role = authdomain.RoleAuthenticated
	}
	return &authdomain.Claims{
		Subject:   user.ID.String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Anonymous: user.Email == "",
	}
}
