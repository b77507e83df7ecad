package config

type Config interface {
	EnvConfig
	APIConfig
	LocaleConfig
	CookieConfig
	SSOConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	API
	Locales
	Cookies
	SSO
}

func New() Config {
	return mainConfig{}
}
