package leaderboarddb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) TopScores(ctx context.Context, db bun.IDB, limit int, since *time.Time) ([]ScoreRow, error) {
	db = r.resolveDB(db)

	var rows []ScoreRow
	q := db.NewSelect().
		Model(&rows).
		Column("id", "player_id", "name", "score", "created_at").
		OrderExpr("score DESC, created_at ASC, id ASC").
		Limit(limit)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to select top scores: %w", err)
	}
	return rows, nil
}

func (r *Impl) CountScores(ctx context.Context, db bun.IDB, since *time.Time) (int, error) {
	db = r.resolveDB(db)

	q := db.NewSelect().Model((*ScoreRow)(nil))
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}
	return n, nil
}
