package scorehandlers

import (
	"context"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
)

// FakeService is a programmable fake for scoreservice.Service.
type FakeService struct {
	trace []string

	SubmitScoreFunc func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of calls made to the fake.
func (f *FakeService) Trace() []string {
	if len(f.trace) == 0 {
		return nil
	}
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) SubmitScore(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, req)
	}
	value, err := scoredomain.CoerceScore(req.Score)
	if err != nil {
		return nil, err
	}
	playerID := req.PlayerID
	if req.Player != nil {
		playerID = req.Player.ID
	}
	if playerID == "" {
		playerID = "lens_1"
	}
	return &scoreservice.SubmitScoreResult{
		Record: scoredomain.Record{ID: 1, PlayerID: playerID, Score: value, Source: req.Source},
	}, nil
}

// FakeIdentityResolver is a programmable fake for IdentityResolver.
type FakeIdentityResolver struct {
	ResolveBearerFunc func(ctx context.Context, header string) (*authdomain.Identity, error)
}

func (f *FakeIdentityResolver) ResolveBearer(ctx context.Context, header string) (*authdomain.Identity, error) {
	if f.ResolveBearerFunc != nil {
		return f.ResolveBearerFunc(ctx, header)
	}
	return &authdomain.Identity{PlayerID: "player-1", Name: "Ada", Email: "ada@example.com"}, nil
}

var (
	_ scoreservice.Service = (*FakeService)(nil)
	_ IdentityResolver     = (*FakeIdentityResolver)(nil)
)
