// Package principal defines the verified identity record bound to an
// authenticated session.
package principal

import (
	"fmt"

	"github.com/jrsteele09/go-login-server/internal/errors"
)

// ProviderType identifies the identity provider that asserted a Principal.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
)

// Principal is the authenticated identity held server-side for the lifetime
// of a session. It is immutable once constructed; a re-login replaces it.
type Principal struct {
	ExternalID  string       // Provider-assigned subject, unique per (provider, user)
	Email       string       // Provider-asserted, not re-verified locally
	DisplayName string       // Human-readable name
	Provider    ProviderType // Asserting provider
	AvatarURL   string       // Optional profile image URI
}

// Claims is the raw identity payload returned by a provider's profile
// endpoint. Only the fields the server understands are decoded.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// FromClaims validates a raw provider payload and maps it to a Principal.
// A missing subject or missing verified email fails authentication: raw
// provider payloads are never stored unvalidated.
func FromClaims(provider ProviderType, claims Claims) (*Principal, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("profile has no subject: %w", errors.ErrAuthenticationFailed)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, fmt.Errorf("profile has no verified email: %w", errors.ErrAuthenticationFailed)
	}

	return &Principal{
		ExternalID:  claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Provider:    provider,
		AvatarURL:   claims.Picture,
	}, nil
}

// UserResponse is the JSON shape served by GET /api/user.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ToUserResponse converts a Principal into its API representation.
func (p *Principal) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        p.ExternalID,
		Email:     p.Email,
		Name:      p.DisplayName,
		Provider:  string(p.Provider),
		AvatarURL: p.AvatarURL,
	}
}
