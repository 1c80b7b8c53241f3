package leaderboarddb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository reads ranked scores. It never writes.
type Repository interface {
	// TopScores returns up to limit rows ordered by score desc, created_at asc, id asc.
	// A non-nil since restricts rows to those created at or after it.
	TopScores(ctx context.Context, db bun.IDB, limit int, since *time.Time) ([]ScoreRow, error)

	// CountScores returns the number of rows, honoring since the same way.
	CountScores(ctx context.Context, db bun.IDB, since *time.Time) (int, error)
}
