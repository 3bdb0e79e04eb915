package services

import (
	"errors"
	"sync"
)

// ErrBadSecret is returned when the elevated-mode secret check fails.
// Failed attempts do not change gate state and are freely retryable.
var ErrBadSecret = errors.New("admin secret mismatch")

// ErrNotElevated rejects a gated action attempted without elevated mode.
var ErrNotElevated = errors.New("elevated mode required")

// SecretChecker validates a candidate admin secret. It is pure and
// external to the gate's state.
type SecretChecker func(candidate string) bool

// AccessGate tracks per-session elevated mode. Elevation is granted by
// a shared-secret check and dropped on explicit reset or when the
// session disappears; it is never persisted. There is no lockout,
// rate limiting or audit trail.
type AccessGate struct {
	check SecretChecker

	mu       sync.Mutex
	elevated map[string]bool
}

func NewAccessGate(check SecretChecker) *AccessGate {
	return &AccessGate{check: check, elevated: make(map[string]bool)}
}

// Authorize elevates the session when the secret matches. Authorizing
// an already-elevated session is a no-op success.
func (g *AccessGate) Authorize(session, secret string) error {
	if !g.check(secret) {
		return ErrBadSecret
	}

	g.mu.Lock()
	g.elevated[session] = true
	g.mu.Unlock()
	return nil
}

func (g *AccessGate) Elevated(session string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elevated[session]
}

// Reset drops elevated mode for the session. Called when the owning
// screen is torn down; staff re-authenticate on every visit.
func (g *AccessGate) Reset(session string) {
	g.mu.Lock()
	delete(g.elevated, session)
	g.mu.Unlock()
}
