package scorehandlers

import (
	"context"
	"net/http"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
)

// Handlers serves the score submission endpoint.
type Handlers interface {
	HandleSubmitScore(w http.ResponseWriter, r *http.Request)
}

// IdentityResolver turns an Authorization header into a player identity.
type IdentityResolver interface {
	ResolveBearer(ctx context.Context, header string) (*authdomain.Identity, error)
}
