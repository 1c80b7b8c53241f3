package scores_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	"github.com/Black-And-White-Club/lensboard/app/modules/leaderboard"
	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/lensboard/app/modules/score"
	scorehandlers "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/handlers"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// newServer wires the score and leaderboard modules against the test database.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Postgres.DSN = testEnv.DSN
	cfg.HTTP.RateLimit = 1000
	cfg.HTTP.RateBurst = 1000

	obs := observability.NewNoop()
	ctx, cancel := context.WithCancel(testEnv.Ctx)
	t.Cleanup(cancel)

	bus := eventbus.NewEventBus(obs.Logger)
	t.Cleanup(func() { bus.Close() })

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(obs.Logger))
	require.NoError(t, err)

	httpRouter := chi.NewRouter()
	_, err = score.NewModule(ctx, cfg, obs, testEnv.DB, bus, nil, httpRouter)
	require.NoError(t, err)
	_, err = leaderboard.NewModule(ctx, cfg, obs, testEnv.DB, bus, wmRouter, httpRouter)
	require.NoError(t, err)

	go wmRouter.Run(ctx)
	select {
	case <-wmRouter.Running():
	case <-time.After(10 * time.Second):
		t.Fatal("message router did not start")
	}
	t.Cleanup(func() { wmRouter.Close() })

	srv := httptest.NewServer(httpRouter)
	t.Cleanup(srv.Close)
	return srv
}

func submit(t *testing.T, srv *httptest.Server, score int) scorehandlers.SubmitScoreResponse {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s/submitScore?score=%d", srv.URL, score))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body scorehandlers.SubmitScoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func fetchLeaderboard(t *testing.T, srv *httptest.Server) leaderboarddomain.Leaderboard {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board leaderboarddomain.Leaderboard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	return board
}

func scoresOf(board leaderboarddomain.Leaderboard) []int {
	out := make([]int, 0, len(board.Entries))
	for _, e := range board.Entries {
		out = append(out, e.Score)
	}
	return out
}
