package relayservice

import (
	"context"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
)

// Service relays lens events to the submission endpoint.
type Service interface {
	// Handle never panics and never returns an error; failures are
	// reported in the Outcome.
	Handle(ctx context.Context, ev relaydomain.LensEvent) relaydomain.Outcome
}

// SubmitRequest is one outbound score submission.
type SubmitRequest struct {
	Score      int
	Credential string
	Source     string
}

// SubmitResponse is the raw and decoded endpoint response.
type SubmitResponse struct {
	StatusCode int
	Body       []byte
	Result     *relaydomain.SubmitResult
}

// Submitter performs the outbound call to the submission endpoint.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
}
