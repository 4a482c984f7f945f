package service

import "errors"

var (
	// ErrInvalidDataProvided reports request data failing basic validation.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword reports a login attempt with a wrong password.
	ErrWrongPassword = errors.New("wrong password")

	// ErrTokenCreationFailed reports a JWT signing failure.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpiredOrInvalid normalises every JWT validation failure so
	// callers do not need to inspect low-level JWT errors.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
