package scoreservice

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
)

// Service defines the score submission operations.
type Service interface {
	// SubmitScore validates an untrusted score and records it for a player.
	// Validation failures are returned as scoredomain validation errors.
	SubmitScore(ctx context.Context, req SubmitScoreRequest) (*SubmitScoreResult, error)
}

// SubmitScoreRequest is a single score submission.
type SubmitScoreRequest struct {
	// Score is the raw value as received: a string, a JSON number, or a Go numeric.
	Score any
	// Player is the resolved identity, nil for anonymous submissions.
	Player *scoredomain.Player
	// PlayerID is a client-generated identifier used only when Player is nil.
	PlayerID string
	// SubmissionToken makes the submission idempotent when set.
	SubmissionToken string
	Source          string
}

// SubmitScoreResult is the outcome of a recorded submission.
type SubmitScoreResult struct {
	Record    scoredomain.Record
	Duplicate bool
}
