package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOperationMetrics(reg, "score")
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "SubmitScore", "ScoreService")
	m.RecordOperationAttempt(ctx, "SubmitScore", "ScoreService")
	m.RecordOperationSuccess(ctx, "SubmitScore", "ScoreService")
	m.RecordOperationFailure(ctx, "SubmitScore", "ScoreService")
	m.RecordOperationDuration(ctx, "SubmitScore", "ScoreService", 20*time.Millisecond)

	impl := m.(*prometheusOperationMetrics)
	assert.Equal(t, 2.0, testutil.ToFloat64(impl.attempts.WithLabelValues("ScoreService", "SubmitScore")))
	assert.Equal(t, 1.0, testutil.ToFloat64(impl.successes.WithLabelValues("ScoreService", "SubmitScore")))
	assert.Equal(t, 1.0, testutil.ToFloat64(impl.failures.WithLabelValues("ScoreService", "SubmitScore")))
}

func TestNewOperationMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewOperationMetrics(reg, "leaderboard")
	second := NewOperationMetrics(reg, "leaderboard")

	first.RecordOperationAttempt(context.Background(), "Top", "LeaderboardService")
	second.RecordOperationAttempt(context.Background(), "Top", "LeaderboardService")

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "lensboard_leaderboard_operation_attempts_total" {
			found = true
			assert.Equal(t, 2.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "attempts counter not gathered")
}

func TestNewNoop(t *testing.T) {
	obs := NewNoop()
	require.NotNil(t, obs.Logger)
	require.NotNil(t, obs.Tracer)
	require.NotNil(t, obs.Registry)
	_, span := obs.Tracer.Start(context.Background(), "op")
	span.End()
}
