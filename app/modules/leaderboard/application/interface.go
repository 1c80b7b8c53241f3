package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
)

// Service defines the read-only leaderboard operations.
type Service interface {
	// GetLeaderboard returns the ranked top entries. Unfiltered queries may be served from cache.
	GetLeaderboard(ctx context.Context, q Query) (*leaderboarddomain.Leaderboard, error)

	// RenderChart returns a PNG bar chart of the same view.
	RenderChart(ctx context.Context, q Query) ([]byte, error)

	// ExportWorkbook returns the same view as an XLSX workbook.
	ExportWorkbook(ctx context.Context, q Query) ([]byte, error)

	// Invalidate drops the cached view.
	Invalidate()
}

// Query selects a leaderboard view.
type Query struct {
	Limit int
	// Since is RFC 3339 or a natural-language phrase such as "yesterday".
	Since string
}
