// Package provider integrates external identity providers. A Provider builds
// the authorization redirect and exchanges the provider callback for a
// verified Principal over a back channel the client never sees.
package provider

import (
	"context"

	"github.com/jrsteele09/go-login-server/principal"
)

// Provider is an external identity provider.
type Provider interface {
	// Name returns the provider identifier stored on the Principal
	Name() principal.ProviderType

	// AuthCodeURL builds the provider authorization URL embedding the
	// requested scopes, the registered callback URI and the anti-forgery
	// state token
	AuthCodeURL(ctx context.Context, state string) (string, error)

	// Exchange swaps the authorization code for an access token and fetches
	// the verified identity profile
	Exchange(ctx context.Context, code string) (*principal.Principal, error)
}

// CallbackParams carries the query parameters the provider appends when
// redirecting back to the callback route.
type CallbackParams struct {
	State            string
	Code             string
	Error            string // Provider-reported authorization error, if any
	ErrorDescription string
}
