package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/provider"
	"github.com/jrsteele09/go-login-server/sessions"
)

// LoginHandler starts the provider login flow (GET /auth/login). The client
// is redirected to the provider authorization URL; a server with no provider
// credentials answers 500 without crashing anything else.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Configured() {
			log.Warn().Msg("Login attempted but identity provider credentials are not set")
			writeJSONError(w, http.StatusInternalServerError, "Login is not configured on this server")
			return
		}

		session, err := s.ensureSession(w, r)
		if err != nil {
			log.Err(err).Msg("Failed to establish session for login")
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		redirectURL, err := s.auth.BeginLogin(r.Context(), session.ID, r.URL.Query().Get("return_to"))
		if err != nil {
			if errors.Is(err, errors.ErrProviderNotConfigured) {
				writeJSONError(w, http.StatusInternalServerError, "Login is not configured on this server")
				return
			}
			log.Err(err).Msg("Failed to begin login")
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.metrics.RecordLoginAttempt()
		http.Redirect(w, r, redirectURL, http.StatusFound)
	}
}

// CallbackHandler completes the provider login flow (GET /auth/callback).
// Failures redirect to a generic failure page; provider internals are logged
// server-side only.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := provider.CallbackParams{
			State:            r.FormValue("state"),
			Code:             r.FormValue("code"),
			Error:            r.FormValue("error"),
			ErrorDescription: r.FormValue("error_description"),
		}

		sessionID, ok := s.sessionIDFromRequest(r)
		if !ok {
			log.Warn().Msg("Login callback without session cookie")
			s.metrics.RecordLoginFailure("no_session")
			http.Redirect(w, r, RouteLoginFailed, http.StatusSeeOther)
			return
		}

		result, err := s.auth.CompleteLogin(r.Context(), sessionID, params)
		if err != nil {
			log.Err(err).Str("session_id", sessionID).Msg("Login callback failed")
			s.metrics.RecordLoginFailure(failureReason(err))
			http.Redirect(w, r, RouteLoginFailed, http.StatusSeeOther)
			return
		}

		// Re-issue the cookie so its lifetime matches the session
		if err := s.SetLoginSessionCookie(w, r, sessionID); err != nil {
			log.Err(err).Msg("Failed to set session cookie")
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.metrics.RecordLoginSuccess()
		log.Info().
			Str("provider", string(result.Principal.Provider)).
			Str("external_id", result.Principal.ExternalID).
			Msg("Login completed")

		returnURL := result.ReturnURL
		if returnURL == "" || returnURL == "/" {
			returnURL = RouteProfile
		}
		http.Redirect(w, r, returnURL, http.StatusSeeOther)
	}
}

// LogoutHandler destroys the session and clears the cookie (GET /auth/logout).
// Always redirects home; logout never fails from the client's view.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, ok := s.sessionIDFromRequest(r); ok {
			s.auth.Logout(sessionID)
		}
		s.ClearLoginSessionCookie(w, r)
		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

// ensureSession returns the live session referenced by the request cookie,
// creating a fresh one (and issuing its cookie) when the reference is
// missing, tampered or expired.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*sessions.Session, error) {
	if sessionID, ok := s.sessionIDFromRequest(r); ok {
		if session, err := s.auth.Sessions().Get(sessionID); err == nil {
			return session, nil
		}
	}

	session, err := s.auth.Sessions().Create()
	if err != nil {
		return nil, err
	}
	if err := s.SetLoginSessionCookie(w, r, session.ID); err != nil {
		return nil, err
	}
	return session, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrProviderNotConfigured):
		return "not_configured"
	case errors.Is(err, errors.ErrSessionNotFound):
		return "session_expired"
	case errors.Is(err, errors.ErrAuthenticationFailed):
		return "authentication_failed"
	default:
		return "internal"
	}
}
