package errs

import "errors"

// The messages are returned verbatim in response envelopes; clients match on them.
var (
	ErrUserExists      = errors.New("User Exists")
	ErrUserNotFound    = errors.New("User not found")
	ErrInvalidPassword = errors.New("Invalid Password")
	ErrRequestExists   = errors.New("User request already Exists")
	ErrInvalidToken    = errors.New("invalid token")
)
