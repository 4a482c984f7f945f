package ws

import (
	"sync"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
)

// Registry is the process-wide mapping from an authenticated user identity
// to its live sessions. Each user maps to a set of sessions so that every
// open tab or device of the same user receives broadcasts; closing one
// session removes only that member.
//
// The registry is constructed once at startup and handed to every
// per-connection handler; there are no ambient singletons.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]map[*Session]struct{}

	logger *logger.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(logger *logger.Logger) *Registry {
	logger.Debug().Msg("creating connection registry")
	return &Registry{
		sessions: make(map[int64]map[*Session]struct{}),
		logger:   logger,
	}
}

// Register associates the session with the user. Registration happens only
// after a successful authentication handshake.
func (r *Registry) Register(userID int64, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[userID]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[userID] = set
	}
	set[s] = struct{}{}

	r.logger.Debug().Int64("user_id", userID).Int("sessions", len(set)).Msg("session registered")
}

// Unregister removes the association for this one session if present;
// a no-op when absent. The last session of a user removes the user's entry
// entirely.
func (r *Registry) Unregister(userID int64, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[userID]
	if !ok {
		return
	}

	delete(set, s)
	if len(set) == 0 {
		delete(r.sessions, userID)
	}

	r.logger.Debug().Int64("user_id", userID).Int("sessions", len(set)).Msg("session unregistered")
}

// Broadcast sends one frame to every live session of the user. Sessions with
// a saturated outbound buffer drop the frame rather than block the caller.
func (r *Registry) Broadcast(userID int64, frame []byte) {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions[userID]))
	for s := range r.sessions[userID] {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		s.Send(frame)
	}
}

// SessionCount returns the number of live sessions registered for the user.
func (r *Registry) SessionCount(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[userID])
}
