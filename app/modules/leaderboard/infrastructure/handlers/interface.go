package leaderboardhandlers

import (
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers serves leaderboard reads and reacts to score events.
type Handlers interface {
	HandleGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleChart(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)

	// HandleScoreSubmitted invalidates the cached view.
	HandleScoreSubmitted(msg *message.Message) error
}
