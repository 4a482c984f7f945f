package sync

import "errors"

var (
	// ErrMalformedMessage reports a frame too short to carry an opcode.
	ErrMalformedMessage = errors.New("malformed message: empty frame")

	// ErrQueueFull reports that the bounded operation queue rejected an
	// enqueue attempt.
	ErrQueueFull = errors.New("sync queue is full")
)
