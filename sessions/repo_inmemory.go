package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/principal"
)

const sessionIDBytes = 32

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
// A single RWMutex serialises all mutation; sessions never coordinate across
// ids, so the coarse lock is sufficient for correctness.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	lifetime time.Duration
	nowTime  func() time.Time
}

// InMemoryRepoOption modifies an InMemoryRepo instance.
type InMemoryRepoOption func(*InMemoryRepo)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowTime = nowFunc
	}
}

// NewInMemoryRepo creates a new in-memory session repository. Sessions live
// for the given lifetime from creation.
func NewInMemoryRepo(lifetime time.Duration, options ...InMemoryRepoOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]*Session),
		lifetime: lifetime,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Create allocates a new session with a cryptographically random id and no
// Principal.
func (r *InMemoryRepo) Create() (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := r.nowTime()
	session := &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(r.lifetime),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = session

	return copySession(session), nil
}

// Get retrieves a session by id. Expired sessions are lazily evicted and
// reported as not found.
func (r *InMemoryRepo) Get(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, errors.ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if !r.nowTime().Before(session.ExpiresAt) {
		delete(r.sessions, sessionID)
		return nil, errors.ErrSessionNotFound
	}

	return copySession(session), nil
}

// Attach sets the Principal on an existing live session. The previous
// Principal, if any, is replaced, never mutated.
func (r *InMemoryRepo) Attach(sessionID string, p *principal.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound
	}
	if !r.nowTime().Before(session.ExpiresAt) {
		delete(r.sessions, sessionID)
		return errors.ErrSessionNotFound
	}

	session.Principal = p
	return nil
}

// Destroy removes a session unconditionally. Destroying an already-absent
// session is not an error.
func (r *InMemoryRepo) Destroy(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// DeleteExpired removes all sessions that expired before the given time.
// Lazy eviction on Get already keeps reads correct; this exists for the
// optional periodic sweep.
func (r *InMemoryRepo) DeleteExpired(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live (non-evicted) sessions.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// copySession returns a copy to prevent external modifications. The
// Principal pointer is shared; Principals are immutable by contract.
func copySession(s *Session) *Session {
	copied := *s
	return &copied
}

// generateSessionID creates a cryptographically random, unguessable id.
func generateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

var _ Repo = (*InMemoryRepo)(nil)
