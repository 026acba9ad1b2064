package tracker

import "errors"

// Recoverable, caller-visible rejections. The mutation is refused
// and the session state is left unchanged.
var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrInvalidName   = errors.New("invalid user name")
	ErrLastUser      = errors.New("cannot remove the last user")
	ErrGoalLocked    = errors.New("goal is locked")
)
