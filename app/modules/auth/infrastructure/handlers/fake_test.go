package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/lensboard/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
)

// FakeService is a programmable fake for authservice.Service.
type FakeService struct {
	StartGuestSessionFunc func(ctx context.Context, name, email string) (*authservice.GuestSession, error)
	ResolveBearerFunc     func(ctx context.Context, header string) (*authdomain.Identity, error)
}

func (f *FakeService) StartGuestSession(ctx context.Context, name, email string) (*authservice.GuestSession, error) {
	if f.StartGuestSessionFunc != nil {
		return f.StartGuestSessionFunc(ctx, name, email)
	}
	return &authservice.GuestSession{Token: "token"}, nil
}

func (f *FakeService) ResolveBearer(ctx context.Context, header string) (*authdomain.Identity, error) {
	if f.ResolveBearerFunc != nil {
		return f.ResolveBearerFunc(ctx, header)
	}
	return nil, authservice.ErrMissingToken
}

var _ authservice.Service = (*FakeService)(nil)
