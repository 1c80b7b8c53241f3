package scoredomain

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Validation errors for untrusted score input.
var (
	ErrMissingScore = errors.New("missing score")
	ErrNotNumeric   = errors.New("score must be a number")
	ErrNotFinite    = errors.New("score must be finite")
	ErrOutOfRange   = errors.New("score out of range")
)

// Sources identify which path produced a score record.
const (
	SourceEndpoint     = "endpoint"
	SourceRelayMessage = "relay-message"
	SourceRelayRequest = "relay-request"
	SourceSeed         = "seed"
)

// SyntheticPlayerPrefix prefixes player IDs assigned to anonymous submissions.
const SyntheticPlayerPrefix = "lens_"

// IsValidationError reports whether err came from score coercion.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingScore) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrNotFinite) ||
		errors.Is(err, ErrOutOfRange)
}

// ParseScore coerces a textual score into an integer.
// Fractions are truncated toward zero. The result must fit a 32-bit column.
func ParseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingScore
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrOutOfRange
		}
		return 0, ErrNotNumeric
	}
	return fromFloat(f)
}

// CoerceScore accepts a decoded JSON value or a Go numeric and coerces it
// into an integer score.
func CoerceScore(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrMissingScore
	case string:
		return ParseScore(n)
	case json.Number:
		return ParseScore(n.String())
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return fromFloat(float64(n))
	case int32:
		return int(n), nil
	case int64:
		return fromFloat(float64(n))
	default:
		return 0, ErrNotNumeric
	}
}

func fromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, ErrOutOfRange
	}
	return int(t), nil
}

// SyntheticPlayerID returns the player ID assigned when a submission has no identity.
func SyntheticPlayerID(now time.Time) string {
	return SyntheticPlayerPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// Player identifies who a score is recorded for.
type Player struct {
	ID        string
	Name      string
	Email     string
	SessionID string
	Anonymous bool
}

// Record is a persisted score.
type Record struct {
	ID        int64     `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
