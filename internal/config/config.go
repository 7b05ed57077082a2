package config

type Config interface {
	EnvConfig
	ProviderConfig
	SessionConfig
}

type mainConfig struct {
	EnvVars
	Provider
	Session
}

func New() Config {
	return mainConfig{}
}
