package ws

import "errors"

var (
	// ErrNotAuthenticated reports an operation attempted before a
	// successful AUTH handshake.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredential reports an AUTH payload that failed verification.
	// It is fatal for the connection.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUnknownOpcode reports a decoded opcode outside the recognized set.
	ErrUnknownOpcode = errors.New("unknown opcode")
)
