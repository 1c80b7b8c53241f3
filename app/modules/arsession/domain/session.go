package arsessiondomain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingLensConfig is returned when the API token, lens ID or lens group ID is absent.
	ErrMissingLensConfig = errors.New("lens configuration is incomplete")

	// ErrCameraUnavailable is returned when camera access is denied or fails.
	ErrCameraUnavailable = errors.New("camera unavailable")
)

// LensConfig identifies the hosted lens.
type LensConfig struct {
	APIToken string `json:"api_token"`
	LensID   string `json:"lens_id"`
	GroupID  string `json:"lens_group_id"`
}

// Validate returns ErrMissingLensConfig naming every missing field.
func (c LensConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIToken) == "" {
		missing = append(missing, "api_token")
	}
	if strings.TrimSpace(c.LensID) == "" {
		missing = append(missing, "lens_id")
	}
	if strings.TrimSpace(c.GroupID) == "" {
		missing = append(missing, "lens_group_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMissingLensConfig, strings.Join(missing, ", "))
	}
	return nil
}

// State is a step of the play flow.
type State string

const (
	StateLogin   State = "login"
	StateLoading State = "loading"
	StateGame    State = "game"
	StateError   State = "error"
)
