package relaydomain

import "strings"

// DefaultPattern marks a lens request or message as a score submission.
const DefaultPattern = "submit-score"

// Matcher recognises score submissions by a substring of their endpoint or URL.
type Matcher struct {
	Pattern string
}

// NewMatcher returns a Matcher for pattern, or DefaultPattern when empty.
func NewMatcher(pattern string) Matcher {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	return Matcher{Pattern: pattern}
}

// Matches reports whether target contains the pattern.
func (m Matcher) Matches(target string) bool {
	return m.Pattern != "" && strings.Contains(target, m.Pattern)
}

// LensEvent is an inbound event from the lens, independent of how it arrived.
type LensEvent interface {
	// Source names the integration mode the event came through.
	Source() string
	// IsScoreSubmission reports whether the event should be relayed.
	IsScoreSubmission(m Matcher) bool
	// ScoreValue returns the raw, untrusted score.
	ScoreValue() (any, error)
	// Credential returns the bearer token to forward, or "".
	Credential() string
}

// Message types understood on the message channel.
const (
	MessageTypeScore = "score"
	MessageTypeLog   = "log"
)

// MessageEvent is a structured lens message from the SDK's message channel.
type MessageEvent struct {
	Type     string `json:"type"`
	Score    any    `json:"score,omitempty"`
	Message  string `json:"message,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// Token is attached by the transport, never decoded from the payload.
	Token string `json:"-"`
}

func (e MessageEvent) Source() string { return SourceMessage }

func (e MessageEvent) IsScoreSubmission(m Matcher) bool {
	return e.Type == MessageTypeScore || (e.Endpoint != "" && m.Matches(e.Endpoint))
}

func (e MessageEvent) ScoreValue() (any, error) { return e.Score, nil }

func (e MessageEvent) Credential() string { return e.Token }

// Event sources. They match the score module's relay sources.
const (
	SourceMessage = "relay-message"
	SourceRequest = "relay-request"
)
