package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionExpiry() time.Duration
	GetLoginFlowTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "dev-session-secret")
}

func (Session) GetSessionExpiry() time.Duration {
	return 24 * time.Hour
}

// GetLoginFlowTimeout is how long an issued state token remains redeemable.
func (Session) GetLoginFlowTimeout() time.Duration {
	return 15 * time.Minute
}
