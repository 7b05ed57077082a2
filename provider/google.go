package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/principal"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// GoogleConfig holds the registered OAuth client settings for Google.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	IssuerURL    string // Overridable for tests; defaults to the Google issuer
}

// Google implements Provider against Google's OIDC endpoints using issuer
// discovery. Discovery runs lazily on first use and is cached, so an
// unreachable provider delays the first login attempt, never startup.
type Google struct {
	config GoogleConfig

	mu           sync.RWMutex
	oidcProvider *oidc.Provider
	oauthConfig  *oauth2.Config
}

// NewGoogle creates a Google provider. Fails if client credentials are
// unset; callers are expected to check configuration before routing logins.
func NewGoogle(config GoogleConfig) (*Google, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, errors.ErrProviderNotConfigured
	}
	if config.IssuerURL == "" {
		config.IssuerURL = googleIssuer
	}
	return &Google{config: config}, nil
}

func (g *Google) Name() principal.ProviderType {
	return principal.ProviderGoogle
}

// AuthCodeURL builds the Google authorization URL for the given state token.
func (g *Google) AuthCodeURL(ctx context.Context, state string) (string, error) {
	_, oauthConfig, err := g.ensureDiscovered(ctx)
	if err != nil {
		return "", err
	}
	return oauthConfig.AuthCodeURL(state), nil
}

// Exchange swaps the authorization code for tokens and fetches the identity
// profile from the userinfo endpoint. Every failure surfaces as
// ErrAuthenticationFailed; the raw provider error is kept for server-side
// logging only.
func (g *Google) Exchange(ctx context.Context, code string) (*principal.Principal, error) {
	oidcProvider, oauthConfig, err := g.ensureDiscovered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errors.ErrAuthenticationFailed)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %v: %w", err, errors.ErrAuthenticationFailed)
	}

	userInfo, err := oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch: %v: %w", err, errors.ErrAuthenticationFailed)
	}

	var claims principal.Claims
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("malformed profile: %v: %w", err, errors.ErrAuthenticationFailed)
	}

	return principal.FromClaims(principal.ProviderGoogle, claims)
}

// ensureDiscovered performs issuer discovery once and caches the resulting
// endpoints, mirroring how per-tenant OIDC configs are cached elsewhere.
func (g *Google) ensureDiscovered(ctx context.Context) (*oidc.Provider, *oauth2.Config, error) {
	g.mu.RLock()
	oidcProvider, oauthConfig := g.oidcProvider, g.oauthConfig
	g.mu.RUnlock()
	if oidcProvider != nil {
		return oidcProvider, oauthConfig, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.oidcProvider != nil {
		return g.oidcProvider, g.oauthConfig, nil
	}

	discovered, err := oidc.NewProvider(ctx, g.config.IssuerURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	g.oidcProvider = discovered
	g.oauthConfig = &oauth2.Config{
		ClientID:     g.config.ClientID,
		ClientSecret: g.config.ClientSecret,
		Endpoint:     discovered.Endpoint(),
		RedirectURL:  g.config.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return g.oidcProvider, g.oauthConfig, nil
}

var _ Provider = (*Google)(nil)
