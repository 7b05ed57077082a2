// Package auth orchestrates the login lifecycle: provider redirect, callback
// verification, session binding, the access guard, and logout.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/auth/flowrepo"
	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/principal"
	"github.com/jrsteele09/go-login-server/provider"
	"github.com/jrsteele09/go-login-server/sessions"
)

const (
	stateTokenLength       = 32
	defaultFlowTimeout     = 15 * time.Minute
	defaultExchangeTimeout = 10 * time.Second
)

// Service wires the identity provider, the session store and the in-flight
// login state together. The provider may be nil when credentials are absent;
// login attempts then fail with ErrProviderNotConfigured while every other
// route keeps working.
type Service struct {
	provider        provider.Provider
	sessions        sessions.Repo
	flows           flowrepo.Repo
	flowTimeout     time.Duration
	exchangeTimeout time.Duration
	nowTime         func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithExchangeTimeout bounds the provider round trip during CompleteLogin.
func WithExchangeTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.exchangeTimeout = d
	}
}

// WithFlowTimeout sets how long an issued state token remains redeemable.
func WithFlowTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.flowTimeout = d
	}
}

// NewService initializes a new Service with required dependencies. The
// identity provider is optional; session and flow repos are not.
func NewService(idp provider.Provider, sessionRepo sessions.Repo, flowRepo flowrepo.Repo, options ...ServiceOption) (*Service, error) {
	if sessionRepo == nil {
		return nil, fmt.Errorf("[NewService] session repo is required")
	}
	if flowRepo == nil {
		return nil, fmt.Errorf("[NewService] flow repo is required")
	}

	service := &Service{
		provider:        idp,
		sessions:        sessionRepo,
		flows:           flowRepo,
		flowTimeout:     defaultFlowTimeout,
		exchangeTimeout: defaultExchangeTimeout,
		nowTime:         time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Configured reports whether an identity provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Sessions exposes the underlying session repository.
func (s *Service) Sessions() sessions.Repo {
	return s.sessions
}

// BeginLogin generates a fresh anti-forgery state token, binds it to the
// in-flight session and returns the provider authorization URL to redirect
// the client to.
func (s *Service) BeginLogin(ctx context.Context, sessionID, returnURL string) (string, error) {
	if s.provider == nil {
		return "", errors.ErrProviderNotConfigured
	}

	state, err := generateStateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	if err := s.flows.Upsert(sessionID, &flowrepo.FlowState{
		State:     state,
		ReturnURL: returnURL,
		CreatedAt: s.nowTime(),
	}); err != nil {
		return "", fmt.Errorf("failed to store login flow: %w", err)
	}

	redirectURL, err := s.provider.AuthCodeURL(ctx, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorization URL: %w", err)
	}

	return redirectURL, nil
}

// LoginResult is the outcome of a successful CompleteLogin.
type LoginResult struct {
	Principal *principal.Principal
	ReturnURL string // Where the user originally wanted to go, may be empty
}

// CompleteLogin validates the provider callback and attaches the resulting
// Principal to the session. The state token is checked in constant time
// before any token exchange and is consumed whether or not it matches; a
// failed exchange is never retried, the user must restart the login.
func (s *Service) CompleteLogin(ctx context.Context, sessionID string, params provider.CallbackParams) (*LoginResult, error) {
	if s.provider == nil {
		return nil, errors.ErrProviderNotConfigured
	}

	if params.Error != "" {
		return nil, fmt.Errorf("provider returned %q: %w", params.Error, errors.ErrAuthenticationFailed)
	}
	if params.Code == "" || params.State == "" {
		return nil, fmt.Errorf("missing code or state parameter: %w", errors.ErrAuthenticationFailed)
	}

	flow, err := s.flows.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("no login in flight for session: %w", errors.ErrAuthenticationFailed)
	}

	// State tokens are single use, consumed even when the callback fails
	if err := s.flows.Delete(sessionID); err != nil {
		return nil, fmt.Errorf("failed to consume login flow: %w", err)
	}

	if s.nowTime().Sub(flow.CreatedAt) > s.flowTimeout {
		return nil, fmt.Errorf("login flow expired: %w", errors.ErrAuthenticationFailed)
	}

	if subtle.ConstantTimeCompare([]byte(flow.State), []byte(params.State)) != 1 {
		return nil, fmt.Errorf("state token mismatch: %w", errors.ErrAuthenticationFailed)
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, s.exchangeTimeout)
	defer cancel()

	p, err := s.provider.Exchange(exchangeCtx, params.Code)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Attach(sessionID, p); err != nil {
		return nil, errors.Wrapf(err, "failed to attach principal to session")
	}

	return &LoginResult{Principal: p, ReturnURL: flow.ReturnURL}, nil
}

// Authorize is the access guard: it resolves a session id to its Principal.
// A missing, expired or not-yet-authenticated session yields
// ErrUnauthenticated. Read-only, no side effects beyond lazy expiry.
func (s *Service) Authorize(sessionID string) (*principal.Principal, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, errors.ErrUnauthenticated
	}
	if !session.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}
	return session.Principal, nil
}

// Logout destroys the session. It always succeeds from the caller's
// perspective: store errors are logged, never surfaced, so a client is
// never left unable to log out.
func (s *Service) Logout(sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.flows.Delete(sessionID); err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("Failed to delete login flow on logout")
	}
	if err := s.sessions.Destroy(sessionID); err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("Failed to destroy session on logout")
	}
}

// generateStateToken creates a random base64url string
func generateStateToken() (string, error) {
	b := make([]byte, stateTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
