package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-login-server/principal"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyPrincipal stores the authenticated Principal
	ContextKeyPrincipal ContextKey = "principal"
)

// RequireSession is the access guard for protected routes. It resolves the
// session cookie to a Principal and injects it into the request context; an
// unauthenticated request is answered with 401 and the downstream handler
// never runs.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := s.sessionIDFromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			p, err := s.auth.Authorize(sessionID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, p)
			next(w, r.WithContext(ctx))
		}
	}
}

// PrincipalFromContext returns the Principal injected by RequireSession.
func PrincipalFromContext(ctx context.Context) (*principal.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(*principal.Principal)
	return p, ok && p != nil
}
