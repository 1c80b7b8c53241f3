package scoredb

import (
	"time"

	"github.com/uptrace/bun"
)

// Score is a single row of the scores table.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID              int64     `bun:"id,pk,autoincrement"`
	PlayerID        string    `bun:"player_id,notnull"`
	Name            string    `bun:"name,notnull"`
	Email           string    `bun:"email,notnull"`
	Score           int       `bun:"score,type:integer,notnull"`
	Source          string    `bun:"source,notnull"`
	SubmissionToken *string   `bun:"submission_token,unique"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
