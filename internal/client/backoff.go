package client

import "time"

const (
	defaultBackoffBase = time.Second
	maxReconnectTries  = 5
)

// backoff yields reconnect delays that double on every attempt, starting
// from base. After maxTries failed attempts Next reports false and the
// caller is expected to stop reconnecting.
type backoff struct {
	base     time.Duration
	maxTries int
	attempt  int
}

func newBackoff(base time.Duration, maxTries int) *backoff {
	if base <= 0 {
		base = defaultBackoffBase
	}
	if maxTries <= 0 {
		maxTries = maxReconnectTries
	}
	return &backoff{base: base, maxTries: maxTries}
}

// Next returns the delay before the upcoming attempt and whether another
// attempt is allowed at all.
func (b *backoff) Next() (time.Duration, bool) {
	if b.attempt >= b.maxTries {
		return 0, false
	}

	delay := b.base << b.attempt
	b.attempt++
	return delay, true
}

// Reset rearms the schedule once a session is proven usable.
func (b *backoff) Reset() {
	b.attempt = 0
}
