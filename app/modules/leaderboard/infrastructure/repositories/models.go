package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"
)

// ScoreRow is the read model of the scores table used for ranking.
type ScoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID        int64     `bun:"id,pk"`
	PlayerID  string    `bun:"player_id"`
	Name      string    `bun:"name"`
	Score     int       `bun:"score"`
	CreatedAt time.Time `bun:"created_at"`
}
