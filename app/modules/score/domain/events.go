package scoredomain

import "time"

// ScoreSubmittedV1 is published after a score row is inserted.
const ScoreSubmittedV1 = "score.submitted.v1"

// ScoreSubmittedPayloadV1 is the payload of ScoreSubmittedV1.
type ScoreSubmittedPayloadV1 struct {
	ID        int64     `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
