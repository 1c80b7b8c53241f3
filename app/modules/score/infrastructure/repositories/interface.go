package scoredb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for score persistence.
type Repository interface {
	// Insert writes a new score row and fills in its ID.
	// Returns ErrDuplicateSubmission when the submission token was already used.
	Insert(ctx context.Context, db bun.IDB, score *Score) error

	// GetBySubmissionToken returns the row recorded for a submission token.
	GetBySubmissionToken(ctx context.Context, db bun.IDB, token string) (*Score, error)
}
