package relayintercept

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
)

const maxBodyBytes = 64 << 10

// ErrNoScore is returned when an intercepted request carries no score.
var ErrNoScore = errors.New("intercepted request has no score")

// RequestEvent adapts an outbound lens HTTP request to a LensEvent.
type RequestEvent struct {
	req   *http.Request
	token string
}

// NewRequestEvent wraps req. token overrides any Authorization header on req.
func NewRequestEvent(req *http.Request, token string) *RequestEvent {
	return &RequestEvent{req: req, token: token}
}

func (e *RequestEvent) Source() string { return relaydomain.SourceRequest }

func (e *RequestEvent) IsScoreSubmission(m relaydomain.Matcher) bool {
	return e.req != nil && e.req.URL != nil && m.Matches(e.req.URL.String())
}

// ScoreValue reads the score from the query string, falling back to a JSON
// body. The body is restored so the request stays replayable.
func (e *RequestEvent) ScoreValue() (any, error) {
	if v := e.req.URL.Query().Get("score"); v != "" {
		return v, nil
	}
	if e.req.Body == nil || e.req.Body == http.NoBody {
		return nil, ErrNoScore
	}

	raw, err := io.ReadAll(io.LimitReader(e.req.Body, maxBodyBytes))
	e.req.Body.Close()
	e.req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var payload struct {
		Score any `json:"score"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if payload.Score == nil {
		return nil, ErrNoScore
	}
	return payload.Score, nil
}

func (e *RequestEvent) Credential() string {
	if e.token != "" {
		return e.token
	}
	token, _ := httpx.BearerToken(e.req.Header.Get("Authorization"))
	return token
}
