package config

// SSOConfig configures optional institutional single sign-on via an
// external OIDC provider. SSO routes are disabled when the issuer is empty.
type SSOConfig interface {
	GetSSOIssuerURL() string
	GetSSOClientID() string
	GetSSOClientSecret() string
	SSOEnabled() bool
}

type SSO struct{}

var _ SSOConfig = SSO{}

func (SSO) GetSSOIssuerURL() string {
	return GetEnv("SSO_ISSUER_URL", "")
}

func (SSO) GetSSOClientID() string {
	return GetEnv("SSO_CLIENT_ID", "")
}

func (SSO) GetSSOClientSecret() string {
	return GetEnv("SSO_CLIENT_SECRET", "")
}

func (s SSO) SSOEnabled() bool {
	return s.GetSSOIssuerURL() != "" && s.GetSSOClientID() != ""
}
