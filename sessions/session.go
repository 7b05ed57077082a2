// Package sessions owns the server-side binding from an opaque session id to
// an authenticated Principal. The cookie held by the client is only the id;
// no identity data ever goes client-side.
package sessions

import (
	"time"

	"github.com/jrsteele09/go-login-server/principal"
)

// Session binds an opaque random id to an optional Principal and an expiry.
// Principal is nil until a provider callback completes successfully.
type Session struct {
	ID        string
	Principal *principal.Principal
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether a login has completed for this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.Principal != nil
}

// Repo defines the interface for session storage operations.
// Implementations must make each operation atomic with respect to concurrent
// calls on the same session id. An expired session is treated as absent.
type Repo interface {
	// Create allocates a new unauthenticated session with a random id
	Create() (*Session, error)

	// Get retrieves a live session; expired or unknown ids return ErrSessionNotFound
	Get(sessionID string) (*Session, error)

	// Attach sets the Principal on an existing live session
	Attach(sessionID string, p *principal.Principal) error

	// Destroy removes a session; destroying an absent session is not an error
	Destroy(sessionID string) error

	// DeleteExpired removes sessions that expired before the given time and
	// returns how many were removed
	DeleteExpired(before time.Time) int
}
