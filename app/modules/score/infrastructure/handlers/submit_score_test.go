package scorehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authservice "github.com/Black-And-White-Club/lensboard/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) SubmitScoreResponse {
	t.Helper()
	var body SubmitScoreResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestScoreHandlers_HandleSubmitScore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name            string
		method          string
		target          string
		body            string
		headers         map[string]string
		requireIdentity bool
		setupService    func(*FakeService)
		setupIdentity   func(*FakeIdentityResolver)
		wantStatus      int
		wantCalls       []string
		verify          func(t *testing.T, body SubmitScoreResponse)
	}{
		{
			name:       "query score without auth",
			method:     http.MethodGet,
			target:     "/submitScore?score=42",
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.True(t, body.OK)
				require.NotNil(t, body.Score)
				assert.Equal(t, 42, *body.Score)
				assert.Equal(t, "lens_1", body.PlayerID)
			},
		},
		{
			name:       "json body number",
			method:     http.MethodPost,
			target:     "/submitScore",
			body:       `{"score": 7.9}`,
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				require.NotNil(t, body.Score)
				assert.Equal(t, 7, *body.Score)
			},
		},
		{
			name:       "json body numeric string",
			method:     http.MethodPost,
			target:     "/submitScore",
			body:       `{"score": "15", "player_id": "client-7"}`,
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.Equal(t, "client-7", body.PlayerID)
			},
		},
		{
			name:       "query takes precedence over body",
			method:     http.MethodPost,
			target:     "/submitScore?score=3",
			body:       `{"score": 99}`,
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.Equal(t, 3, *body.Score)
			},
		},
		{
			name:       "missing score",
			method:     http.MethodGet,
			target:     "/submitScore",
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.False(t, body.OK)
				assert.Equal(t, "Missing score param", body.Error)
			},
		},
		{
			name:       "non numeric score",
			method:     http.MethodGet,
			target:     "/submitScore?score=abc",
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.Equal(t, "Score must be a number", body.Error)
			},
		},
		{
			name:       "infinite score",
			method:     http.MethodGet,
			target:     "/submitScore?score=Infinity",
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.Equal(t, "Score must be a number", body.Error)
			},
		},
		{
			name:       "out of range score",
			method:     http.MethodGet,
			target:     "/submitScore?score=99999999999",
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{"SubmitScore"},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.Equal(t, "Score out of range", body.Error)
			},
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			target:     "/submitScore",
			body:       `{"score":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			method:     http.MethodGet,
			target:     "/submitScore?score=1",
			wantStatus: http.StatusInternalServerError,
			wantCalls:  []string{"SubmitScore"},
			setupService: func(s *FakeService) {
				s.SubmitScoreFunc = func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
					return nil, errors.New("connection refused")
				}
			},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.False(t, body.OK)
				assert.Equal(t, "insert failed", body.Error)
			},
		},
		{
			name:       "valid bearer attaches identity",
			method:     http.MethodGet,
			target:     "/submitScore?score=5",
			headers:    map[string]string{"Authorization": "Bearer good"},
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			setupService: func(s *FakeService) {
				s.SubmitScoreFunc = func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
					require.NotNil(t, req.Player)
					assert.Equal(t, "player-1", req.Player.ID)
					assert.Equal(t, "Ada", req.Player.Name)
					return &scoreservice.SubmitScoreResult{}, nil
				}
			},
		},
		{
			name:    "invalid bearer",
			method:  http.MethodGet,
			target:  "/submitScore?score=5",
			headers: map[string]string{"Authorization": "Bearer expired"},
			setupIdentity: func(f *FakeIdentityResolver) {
				f.ResolveBearerFunc = func(ctx context.Context, header string) (*authdomain.Identity, error) {
					return nil, fmt.Errorf("%w: token expired", authservice.ErrUnauthorized)
				}
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:            "identity required",
			method:          http.MethodGet,
			target:          "/submitScore?score=5",
			requireIdentity: true,
			wantStatus:      http.StatusUnauthorized,
		},
		{
			name:       "idempotency key forwarded",
			method:     http.MethodPost,
			target:     "/submitScore",
			body:       `{"score": 8, "submission_token": "body-token"}`,
			headers:    map[string]string{IdempotencyKeyHeader: "header-token"},
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			setupService: func(s *FakeService) {
				s.SubmitScoreFunc = func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
					assert.Equal(t, "header-token", req.SubmissionToken)
					res := &scoreservice.SubmitScoreResult{Duplicate: true}
					res.Record.Score = 8
					return res, nil
				}
			},
			verify: func(t *testing.T, body SubmitScoreResponse) {
				assert.True(t, body.Duplicate)
			},
		},
		{
			name:       "relay source header honoured",
			method:     http.MethodGet,
			target:     "/submitScore?score=3",
			headers:    map[string]string{SourceHeader: "relay-request"},
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			setupService: func(s *FakeService) {
				s.SubmitScoreFunc = func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
					assert.Equal(t, "relay-request", req.Source)
					res := &scoreservice.SubmitScoreResult{}
					res.Record.Score = 3
					return res, nil
				}
			},
		},
		{
			name:       "unknown source header ignored",
			method:     http.MethodGet,
			target:     "/submitScore?score=3",
			headers:    map[string]string{SourceHeader: "seed"},
			wantStatus: http.StatusOK,
			wantCalls:  []string{"SubmitScore"},
			setupService: func(s *FakeService) {
				s.SubmitScoreFunc = func(ctx context.Context, req scoreservice.SubmitScoreRequest) (*scoreservice.SubmitScoreResult, error) {
					assert.Equal(t, "endpoint", req.Source)
					res := &scoreservice.SubmitScoreResult{}
					res.Record.Score = 3
					return res, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setupService != nil {
				tt.setupService(svc)
			}
			identity := &FakeIdentityResolver{}
			if tt.setupIdentity != nil {
				tt.setupIdentity(identity)
			}
			h := NewScoreHandlers(svc, identity, tt.requireIdentity, logger, tracer)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.HandleSubmitScore(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, svc.Trace())
			if tt.verify != nil {
				tt.verify(t, decodeResponse(t, rr))
			}
		})
	}
}
