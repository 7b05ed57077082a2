package config

import "time"

// ProviderConfig exposes the Google OAuth client settings.
// Absent credentials disable the login route but never prevent startup.
type ProviderConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetOAuthCallbackURL() string
	GetProviderTimeout() time.Duration
	ProviderConfigured() bool
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Provider) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (p Provider) GetOAuthCallbackURL() string {
	if callback := GetEnv("OAUTH_CALLBACK_URL", ""); callback != "" {
		return callback
	}
	return EnvVars{}.GetBaseURL() + "/auth/callback"
}

// GetProviderTimeout bounds the callback round trip to the provider.
func (Provider) GetProviderTimeout() time.Duration {
	return 10 * time.Second
}

func (p Provider) ProviderConfigured() bool {
	return p.GetGoogleClientID() != "" && p.GetGoogleClientSecret() != ""
}
