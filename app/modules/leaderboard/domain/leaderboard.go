package leaderboarddomain

import "time"

// MaxEntries is the most rows a leaderboard view ever returns.
const MaxEntries = 10

// Entry is one ranked row of the leaderboard.
type Entry struct {
	Rank      int       `json:"rank"`
	ScoreID   int64     `json:"score_id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Leaderboard is a ranked top-N view over the scores table.
type Leaderboard struct {
	Entries     []Entry    `json:"entries"`
	Total       int        `json:"total"`
	Since       *time.Time `json:"since,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// ClampLimit bounds a requested row count to [1, MaxEntries]. Zero or
// negative requests get the full view.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return MaxEntries
	case limit > MaxEntries:
		return MaxEntries
	default:
		return limit
	}
}

// AssignRanks applies standard competition ranking to entries already
// ordered best-first: equal scores share a rank and the next rank skips.
func AssignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
