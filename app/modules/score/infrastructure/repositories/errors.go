package scoredb

import "errors"

var (
	// ErrNotFound indicates the requested score record does not exist.
	ErrNotFound = errors.New("score not found")

	// ErrDuplicateSubmission indicates a row with the same submission token already exists.
	ErrDuplicateSubmission = errors.New("duplicate submission")
)
