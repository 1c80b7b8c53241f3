package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Insert writes a score row. Rows carrying a submission token are inserted
// with ON CONFLICT DO NOTHING so a replay leaves the original row untouched.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, score *Score) error {
	db = r.resolveDB(db)

	q := db.NewInsert().Model(score).Returning("id, created_at")
	if score.SubmissionToken != nil {
		q = q.On("CONFLICT (submission_token) DO NOTHING")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if score.SubmissionToken != nil && errors.Is(err, sql.ErrNoRows) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to insert score: %w", err)
	}

	if score.SubmissionToken != nil {
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrDuplicateSubmission
		}
	}
	return nil
}

// GetBySubmissionToken retrieves the row recorded for a submission token.
func (r *Impl) GetBySubmissionToken(ctx context.Context, db bun.IDB, token string) (*Score, error) {
	db = r.resolveDB(db)
	score := new(Score)
	err := db.NewSelect().
		Model(score).
		Where("submission_token = ?", token).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score by submission token: %w", err)
	}
	return score, nil
}
