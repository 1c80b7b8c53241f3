package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/app/results"
	"github.com/uptrace/bun"
)

// SubmitScore validates and records a score.
func (s *ScoreService) SubmitScore(ctx context.Context, req SubmitScoreRequest) (*SubmitScoreResult, error) {
	submitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*SubmitScoreResult, error], error) {
		return s.submitScoreLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "SubmitScore", identifierFor(req), func(ctx context.Context) (results.OperationResult[*SubmitScoreResult, error], error) {
		return runInTx(s, ctx, submitTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	submitted := *result.Success
	if !submitted.Duplicate {
		s.publishSubmitted(ctx, submitted.Record)
	}
	return submitted, nil
}

// submitScoreLogic contains the core logic.
func (s *ScoreService) submitScoreLogic(ctx context.Context, db bun.IDB, req SubmitScoreRequest) (results.OperationResult[*SubmitScoreResult, error], error) {
	value, err := scoredomain.CoerceScore(req.Score)
	if err != nil {
		return results.FailureResult[*SubmitScoreResult, error](err), nil
	}
	if value < 0 {
		s.logger.WarnContext(ctx, "Negative score accepted",
			attr.ExtractCorrelationID(ctx),
			attr.Int("score", value),
		)
	}

	player := s.resolvePlayer(req)
	source := req.Source
	if source == "" {
		source = scoredomain.SourceEndpoint
	}

	row := &scoredb.Score{
		PlayerID:  player.ID,
		Name:      player.Name,
		Email:     player.Email,
		Score:     value,
		Source:    source,
		CreatedAt: s.now().UTC(),
	}

	token := strings.TrimSpace(req.SubmissionToken)
	if token == "" && s.cfg.OnePerSession && req.Player != nil {
		token = req.Player.SessionID
	}
	if token != "" {
		row.SubmissionToken = &token
	}

	if err := s.repo.Insert(ctx, db, row); err != nil {
		if !errors.Is(err, scoredb.ErrDuplicateSubmission) {
			return results.OperationResult[*SubmitScoreResult, error]{}, fmt.Errorf("failed to insert score: %w", err)
		}

		existing, getErr := s.repo.GetBySubmissionToken(ctx, db, token)
		if getErr != nil {
			return results.OperationResult[*SubmitScoreResult, error]{}, fmt.Errorf("failed to load duplicate submission: %w", getErr)
		}
		s.logger.InfoContext(ctx, "Duplicate submission ignored",
			attr.ExtractCorrelationID(ctx),
			attr.String("player_id", existing.PlayerID),
		)
		return results.SuccessResult[*SubmitScoreResult, error](&SubmitScoreResult{
			Record:    toRecord(existing),
			Duplicate: true,
		}), nil
	}

	return results.SuccessResult[*SubmitScoreResult, error](&SubmitScoreResult{
		Record: toRecord(row),
	}), nil
}

// resolvePlayer fills in identity defaults for anonymous submissions.
func (s *ScoreService) resolvePlayer(req SubmitScoreRequest) scoredomain.Player {
	var p scoredomain.Player
	if req.Player != nil {
		p = *req.Player
	} else {
		p = scoredomain.Player{ID: strings.TrimSpace(req.PlayerID), Anonymous: true}
	}

	if p.ID == "" {
		p.ID = scoredomain.SyntheticPlayerID(s.now())
	}
	if p.Name == "" {
		p.Name = s.cfg.AnonymousName
	}
	if p.Email == "" {
		p.Email = s.cfg.AnonymousEmail
	}
	return p
}

func (s *ScoreService) publishSubmitted(ctx context.Context, rec scoredomain.Record) {
	if s.publisher == nil {
		return
	}

	msg, err := eventbus.NewMessage(ctx, scoredomain.ScoreSubmittedPayloadV1{
		ID:        rec.ID,
		PlayerID:  rec.PlayerID,
		Name:      rec.Name,
		Score:     rec.Score,
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt,
	})
	if err == nil {
		err = s.publisher.Publish(scoredomain.ScoreSubmittedV1, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish score submitted event",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}

func toRecord(row *scoredb.Score) scoredomain.Record {
	return scoredomain.Record{
		ID:        row.ID,
		PlayerID:  row.PlayerID,
		Name:      row.Name,
		Email:     row.Email,
		Score:     row.Score,
		Source:    row.Source,
		CreatedAt: row.CreatedAt,
	}
}

func identifierFor(req SubmitScoreRequest) string {
	if req.Player != nil && req.Player.ID != "" {
		return req.Player.ID
	}
	if req.PlayerID != "" {
		return req.PlayerID
	}
	return "anonymous"
}
