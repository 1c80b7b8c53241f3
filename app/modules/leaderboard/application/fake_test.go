package leaderboardservice

import (
	"context"
	"sync"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeLeaderboardRepo is a programmable fake for leaderboarddb.Repository.
type FakeLeaderboardRepo struct {
	mu    sync.Mutex
	trace []string

	TopScoresFunc   func(ctx context.Context, db bun.IDB, limit int, since *time.Time) ([]leaderboarddb.ScoreRow, error)
	CountScoresFunc func(ctx context.Context, db bun.IDB, since *time.Time) (int, error)
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardRepo) TopScores(ctx context.Context, db bun.IDB, limit int, since *time.Time) ([]leaderboarddb.ScoreRow, error) {
	f.record("TopScores")
	if f.TopScoresFunc != nil {
		return f.TopScoresFunc(ctx, db, limit, since)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) CountScores(ctx context.Context, db bun.IDB, since *time.Time) (int, error) {
	f.record("CountScores")
	if f.CountScoresFunc != nil {
		return f.CountScoresFunc(ctx, db, since)
	}
	return 0, nil
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)
