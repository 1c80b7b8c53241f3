package authhandlers

import "net/http"

// Handlers serves the guest sign-in endpoint.
type Handlers interface {
	HandleStartSession(w http.ResponseWriter, r *http.Request)
}
