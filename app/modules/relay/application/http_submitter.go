package relayservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
	"golang.org/x/oauth2"
)

// SourceHeader tells the submission endpoint which relay mode forwarded the score.
const SourceHeader = "X-Score-Source"

const maxResponseBytes = 64 << 10

// HTTPSubmitter posts scores to the submission endpoint.
type HTTPSubmitter struct {
	url  string
	base http.RoundTripper
}

// NewHTTPSubmitter creates a submitter for url. A nil base uses http.DefaultTransport.
func NewHTTPSubmitter(url string, base http.RoundTripper) *HTTPSubmitter {
	if base == nil {
		base = http.DefaultTransport
	}
	return &HTTPSubmitter{url: url, base: base}
}

// client attaches the bearer credential through an oauth2 transport.
func (s *HTTPSubmitter) client(credential string) *http.Client {
	if credential == "" {
		return &http.Client{Transport: s.base}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"}),
			Base:   s.base,
		},
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	body, err := json.Marshal(map[string]int{"score": req.Score})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Source != "" {
		httpReq.Header.Set(SourceHeader, req.Source)
	}

	resp, err := s.client(req.Credential).Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read submit response: %w", err)
	}

	out := &SubmitResponse{StatusCode: resp.StatusCode, Body: raw}
	var result relaydomain.SubmitResult
	if err := json.Unmarshal(raw, &result); err == nil {
		out.Result = &result
	}
	return out, nil
}
