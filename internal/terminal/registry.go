package terminal

import (
	"sync"

	"restaurant-pos/internal/service"
	"restaurant-pos/internal/session"

	"github.com/rs/zerolog"
)

// SessionNotifier delivers sign-in and sign-out events.
type SessionNotifier interface {
	OnSessionChange(fn func(session.Change)) *session.Subscription
}

// Registry holds one terminal per signed-in session, keyed by session id, so
// a user signed in on two devices has two carts.
type Registry struct {
	orders service.OrderService
	logger zerolog.Logger
	sub    *session.Subscription

	mu        sync.Mutex
	terminals map[string]*Terminal
}

// NewRegistry creates a registry. When sessions is non-nil the terminal of a
// session is discarded as soon as that session signs out.
func NewRegistry(orders service.OrderService, sessions SessionNotifier, logger zerolog.Logger) *Registry {
	r := &Registry{
		orders:    orders,
		logger:    logger.With().Str("component", "terminal").Logger(),
		terminals: make(map[string]*Terminal),
	}
	if sessions != nil {
		r.sub = sessions.OnSessionChange(r.handleChange)
	}
	return r
}

// Get returns the terminal of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.terminals[sessionID]
	if !ok {
		t = New(r.orders, r.logger.With().Str("session_id", sessionID).Logger())
		r.terminals[sessionID] = t
	}
	return t
}

// Drop discards the terminal of sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.terminals, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live terminals.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}

// Close stops listening for session changes.
func (r *Registry) Close() {
	if r.sub != nil {
		r.sub.Unsubscribe()
	}
}

func (r *Registry) handleChange(c session.Change) {
	if c.Kind != session.SignedOut {
		return
	}
	r.Drop(c.Session.ID)
	r.logger.Debug().
		Str("session_id", c.Session.ID).
		Str("user_id", c.Session.UserID.String()).
		Msg("terminal dropped on sign-out")
}
