package arsessiondomain

import (
	"context"
	"net/http"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// BootstrapOptions configures the camera SDK.
type BootstrapOptions struct {
	APIToken string
	// Transport receives every HTTP request the lens makes.
	Transport http.RoundTripper
}

// SDK bootstraps the external camera SDK.
type SDK interface {
	Bootstrap(ctx context.Context, opts BootstrapOptions) (Kernel, error)
}

// Kernel is a bootstrapped SDK instance.
type Kernel interface {
	CreateSession(ctx context.Context) (Session, error)
	LoadLens(ctx context.Context, lensID, groupID string) (Lens, error)
	Destroy() error
}

// Lens is a loaded lens ready to be applied.
type Lens struct {
	ID      string
	GroupID string
	Name    string
}

// Session renders a media source through the applied lens.
type Session interface {
	SetSource(ctx context.Context, stream MediaStream) error
	Play(ctx context.Context) error
	ApplyLens(ctx context.Context, lens Lens) error
	Pause() error
	Destroy() error
}

// MessageChannel is implemented by sessions that expose the lens message stream.
type MessageChannel interface {
	Messages() <-chan relaydomain.MessageEvent
	Send(ctx context.Context, reply relaydomain.Reply) error
}

// Constraints select the media to capture.
type Constraints struct {
	Video bool
	Audio bool
}

// MediaDevices acquires capture streams.
type MediaDevices interface {
	GetUserMedia(ctx context.Context, c Constraints) (MediaStream, error)
}

// MediaStream is an acquired capture stream.
type MediaStream interface {
	Tracks() []Track
}

// Track is one media track. Stop releases the device.
type Track interface {
	Kind() string
	Stop()
}
