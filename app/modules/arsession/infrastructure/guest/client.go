package arsessionguest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SessionPath is the guest sign-in route.
const SessionPath = "/api/session"

// ErrSignInFailed is returned when the server refuses the sign-in.
var ErrSignInFailed = errors.New("guest sign-in failed")

// Client signs guests in against the lensboard server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a sign-in client. A nil hc uses a client with a 10s timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type signInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type signInResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// SignIn returns the guest bearer token.
func (c *Client) SignIn(ctx context.Context, name, email string) (string, error) {
	body, err := json.Marshal(signInRequest{Name: name, Email: email})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SessionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	var out signInResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error == "" {
			out.Error = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrSignInFailed, out.Error)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrSignInFailed)
	}
	return out.Token, nil
}
