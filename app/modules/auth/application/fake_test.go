package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
)

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)
}

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{Subject: "fake-player"}, nil
}

// ------------------------
// Fake Token Resolver
// ------------------------

type FakeTokenResolver struct {
	ResolveFunc func(ctx context.Context, token string) (*authdomain.Claims, error)
}

func (f *FakeTokenResolver) Resolve(ctx context.Context, token string) (*authdomain.Claims, error) {
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, token)
	}
	return &authdomain.Claims{Subject: "resolved-player"}, nil
}
