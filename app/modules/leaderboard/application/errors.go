package leaderboardservice

import "errors"

// ErrInvalidSince is returned when the since filter is neither RFC 3339 nor a recognised phrase.
var ErrInvalidSince = errors.New("invalid since value")
