package config

type Config interface {
	EnvConfig
	StoreConfig
	SessionConfig
}

type mainConfig struct {
	EnvVars
	Store
	Sessions
}

func New() Config {
	return mainConfig{}
}
