package leaderboardservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/app/results"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var sinceParser = newSinceParser()

func newSinceParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}

// ParseSince resolves a since filter relative to now. Empty input means no filter.
func ParseSince(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	r, err := sinceParser.Parse(strings.ToLower(raw), now)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSince, raw, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSince, raw)
	}
	t := r.Time.UTC()
	return &t, nil
}

// GetLeaderboard returns up to q.Limit entries ranked best-first.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, q Query) (*leaderboarddomain.Leaderboard, error) {
	result, err := withTelemetry(s, ctx, "GetLeaderboard", func(ctx context.Context) (results.OperationResult[*leaderboarddomain.Leaderboard, error], error) {
		return s.getLeaderboardLogic(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *LeaderboardService) getLeaderboardLogic(ctx context.Context, q Query) (results.OperationResult[*leaderboarddomain.Leaderboard, error], error) {
	limit := s.limitFor(q)

	since, err := ParseSince(q.Since, s.now())
	if err != nil {
		return results.FailureResult[*leaderboarddomain.Leaderboard, error](err), nil
	}

	if since != nil {
		board, err := s.load(ctx, limit, since)
		if err != nil {
			return results.OperationResult[*leaderboarddomain.Leaderboard, error]{}, err
		}
		return results.SuccessResult[*leaderboarddomain.Leaderboard, error](board), nil
	}

	if board, ok := s.fromCache(limit); ok {
		return results.SuccessResult[*leaderboarddomain.Leaderboard, error](board), nil
	}

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	full, err := s.load(ctx, leaderboarddomain.MaxEntries, nil)
	if err != nil {
		return results.OperationResult[*leaderboarddomain.Leaderboard, error]{}, err
	}

	s.mu.Lock()
	if s.generation == gen && s.cfg.CacheTTL > 0 {
		s.cached = &cachedView{board: *full, expiresAt: s.now().Add(s.cfg.CacheTTL)}
	}
	s.mu.Unlock()

	return results.SuccessResult[*leaderboarddomain.Leaderboard, error](truncate(full, limit)), nil
}

func (s *LeaderboardService) fromCache(limit int) (*leaderboarddomain.Leaderboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil || !s.now().Before(s.cached.expiresAt) {
		return nil, false
	}
	board := s.cached.board
	return truncate(&board, limit), true
}

func (s *LeaderboardService) load(ctx context.Context, limit int, since *time.Time) (*leaderboarddomain.Leaderboard, error) {
	rows, err := s.repo.TopScores(ctx, s.db, limit, since)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountScores(ctx, s.db, since)
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboarddomain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, leaderboarddomain.Entry{
			ScoreID:   row.ID,
			PlayerID:  row.PlayerID,
			Name:      row.Name,
			Score:     row.Score,
			CreatedAt: row.CreatedAt,
		})
	}
	leaderboarddomain.AssignRanks(entries)

	s.logger.DebugContext(ctx, "Leaderboard loaded",
		attr.ExtractCorrelationID(ctx),
		attr.Int("entries", len(entries)),
		attr.Int("total", total),
	)

	return &leaderboarddomain.Leaderboard{
		Entries:     entries,
		Total:       total,
		Since:       since,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// truncate returns a copy of board holding at most limit entries.
func truncate(board *leaderboarddomain.Leaderboard, limit int) *leaderboarddomain.Leaderboard {
	out := *board
	n := min(limit, len(board.Entries))
	out.Entries = make([]leaderboarddomain.Entry, n)
	copy(out.Entries, board.Entries[:n])
	return &out
}
