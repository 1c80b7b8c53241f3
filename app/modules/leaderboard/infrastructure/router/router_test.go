package leaderboardrouter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type countingHandlers struct {
	seen atomic.Int32
}

func (c *countingHandlers) HandleGetLeaderboard(http.ResponseWriter, *http.Request) {}
func (c *countingHandlers) HandleChart(http.ResponseWriter, *http.Request)          {}
func (c *countingHandlers) HandleExport(http.ResponseWriter, *http.Request)         {}
func (c *countingHandlers) HandleScoreSubmitted(*message.Message) error {
	c.seen.Add(1)
	return nil
}

func TestLeaderboardRouter_DeliversScoreEvents(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus := eventbus.NewEventBus(logger)
	defer bus.Close()

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	r := NewLeaderboardRouter(logger, wmRouter, bus, noop.NewTracerProvider().Tracer("test"), nil)
	handlers := &countingHandlers{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, r.Configure(ctx, handlers))

	go func() { _ = wmRouter.Run(ctx) }()
	<-wmRouter.Running()
	defer r.Close()

	msg, err := eventbus.NewMessage(ctx, scoredomain.ScoreSubmittedPayloadV1{ID: 1, Score: 5})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(scoredomain.ScoreSubmittedV1, msg))

	require.Eventually(t, func() bool { return handlers.seen.Load() == 1 }, 5*time.Second, 20*time.Millisecond)
}

// mutableRepo serves whatever rows were last set.
type mutableRepo struct {
	mu   sync.Mutex
	rows []leaderboarddb.ScoreRow
}

func (r *mutableRepo) set(scores ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = r.rows[:0]
	for i, s := range scores {
		r.rows = append(r.rows, leaderboarddb.ScoreRow{ID: int64(i + 1), PlayerID: "p", Name: "Player", Score: s})
	}
}

func (r *mutableRepo) TopScores(ctx context.Context, db bun.IDB, limit int, since *time.Time) ([]leaderboarddb.ScoreRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]leaderboarddb.ScoreRow(nil), r.rows...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *mutableRepo) CountScores(ctx context.Context, db bun.IDB, since *time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func TestLeaderboardRouter_PublishInvalidatesBeforeReturning(t *testing.T) {
	t.Setenv(TestEnvironmentFlag, TestEnvironmentValue)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	bus := eventbus.NewEventBus(logger)
	defer bus.Close()

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	repo := &mutableRepo{}
	repo.set(10)
	service := leaderboardservice.NewLeaderboardService(repo, logger, nil, tracer, nil, leaderboardservice.Config{CacheTTL: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := NewLeaderboardRouter(logger, wmRouter, bus, tracer, nil)
	require.NoError(t, r.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)))
	go func() { _ = wmRouter.Run(ctx) }()
	<-wmRouter.Running()
	defer r.Close()

	for i := range 20 {
		board, err := service.GetLeaderboard(ctx, leaderboardservice.Query{})
		require.NoError(t, err)
		require.NotEmpty(t, board.Entries)

		top := 100 + i
		repo.set(top, 10)

		msg, err := eventbus.NewMessage(ctx, scoredomain.ScoreSubmittedPayloadV1{ID: int64(i + 2), Score: top})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(scoredomain.ScoreSubmittedV1, msg))

		board, err = service.GetLeaderboard(ctx, leaderboardservice.Query{})
		require.NoError(t, err)
		require.NotEmpty(t, board.Entries)
		assert.Equal(t, top, board.Entries[0].Score, "iteration %d read a stale board", i)
	}
}
