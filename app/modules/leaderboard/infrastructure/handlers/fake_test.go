package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
)

// FakeService is a programmable fake for leaderboardservice.Service.
type FakeService struct {
	Invalidations int

	GetLeaderboardFunc func(ctx context.Context, q leaderboardservice.Query) (*leaderboarddomain.Leaderboard, error)
	RenderChartFunc    func(ctx context.Context, q leaderboardservice.Query) ([]byte, error)
	ExportWorkbookFunc func(ctx context.Context, q leaderboardservice.Query) ([]byte, error)
}

func (f *FakeService) GetLeaderboard(ctx context.Context, q leaderboardservice.Query) (*leaderboarddomain.Leaderboard, error) {
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, q)
	}
	return &leaderboarddomain.Leaderboard{Entries: []leaderboarddomain.Entry{}}, nil
}

func (f *FakeService) RenderChart(ctx context.Context, q leaderboardservice.Query) ([]byte, error) {
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, q)
	}
	return []byte("png"), nil
}

func (f *FakeService) ExportWorkbook(ctx context.Context, q leaderboardservice.Query) ([]byte, error) {
	if f.ExportWorkbookFunc != nil {
		return f.ExportWorkbookFunc(ctx, q)
	}
	return []byte("xlsx"), nil
}

func (f *FakeService) Invalidate() {
	f.Invalidations++
}

var _ leaderboardservice.Service = (*FakeService)(nil)
