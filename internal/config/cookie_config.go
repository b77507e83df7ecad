package config

import "time"

type CookieConfig interface {
	GetCookieSecure() bool
	GetAccessTokenMaxAge() time.Duration
	GetRefreshTokenMaxAge() time.Duration
}

type Cookies struct{}

var _ CookieConfig = Cookies{}

func (Cookies) GetCookieSecure() bool {
	return EnvVars{}.GetEnv() != "DEV"
}

func (Cookies) GetAccessTokenMaxAge() time.Duration {
	return 24 * time.Hour
}

func (Cookies) GetRefreshTokenMaxAge() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}
