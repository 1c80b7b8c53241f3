package arsessionservice

import (
	"context"
	"net/http"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// Dispatcher hands lens messages to the relay's message-channel mode.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev relaydomain.MessageEvent) (relaydomain.Reply, bool)
}

// TransportFactory returns the interception transport bound to a bearer token.
type TransportFactory func(token string) http.RoundTripper

// SignInClient performs the guest sign-in and returns a bearer token.
type SignInClient interface {
	SignIn(ctx context.Context, name, email string) (string, error)
}

// Opener opens a live AR session.
type Opener interface {
	Open(ctx context.Context, token string) (*LiveSession, error)
}
