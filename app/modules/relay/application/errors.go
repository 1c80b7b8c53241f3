package relayservice

import "errors"

var (
	// ErrInvalidScore wraps a score the relay refused to forward.
	ErrInvalidScore = errors.New("invalid score")

	// ErrSubmitFailed wraps a failed outbound call.
	ErrSubmitFailed = errors.New("score submission failed")

	// ErrRejected is set when the endpoint answered but did not accept the score.
	ErrRejected = errors.New("score rejected by endpoint")
)
