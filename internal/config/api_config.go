package config

import "time"

// APIConfig describes how to reach the backend REST API this frontend consumes.
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8000/api/v1")
}

func (API) GetAPITimeout() time.Duration {
	return 30 * time.Second
}
