package errors

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking id")

	// ErrLockHeld means another request holds the room's advisory lock.
	ErrLockHeld = errors.New("room lock already held")
)
