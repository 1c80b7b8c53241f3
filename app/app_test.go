package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_HealthWithoutDatabase(t *testing.T) {
	application := New(&config.Config{}, observability.NewNoop())

	rr := httptest.NewRecorder()
	application.handleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body healthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Database)
	assert.False(t, body.Router)
}

func TestApp_InitializeRejectsInvalidConfig(t *testing.T) {
	application := New(&config.Config{}, observability.NewNoop())
	err := application.Initialize(t.Context())
	assert.ErrorIs(t, err, config.ErrMissingDSN)
}

func TestApp_CloseBeforeInitialize(t *testing.T) {
	application := New(&config.Config{}, observability.NewNoop())
	assert.NotPanics(t, application.Close)
}
