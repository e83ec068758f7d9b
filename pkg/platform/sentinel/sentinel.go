package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
// - ErrNotFound: row does not exist
// - ErrConflict: a uniqueness constraint was hit (duplicate badge number, email)
// - ErrInvalidState: entity in the wrong state for the operation
// - ErrUnavailable: backing service (database, redis lock) unreachable
//
// Input validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
