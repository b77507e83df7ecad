package apiclient

import (
	"net/http"

	"github.com/neurocarehub/webfront/internal/config"
)

// Cookie names are part of the contract other code depends on.
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookieUserRole     = "user_role"
)

// CredentialStore holds the bearer credential pair for the current
// browser session. Expiry is not tracked here; the client only learns of
// an expired access token through a 401 response.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
	SetTokens(access, refresh string)
	Clear()
}

// CookieCredentialStore reads credentials from a request's cookies and
// writes replacements as Set-Cookie headers on the response. Writes made
// during a request are visible to later reads in the same request.
type CookieCredentialStore struct {
	w         http.ResponseWriter
	r         *http.Request
	config    config.CookieConfig
	overrides map[string]*string // nil value means cleared
}

var _ CredentialStore = (*CookieCredentialStore)(nil)

func NewCookieCredentialStore(w http.ResponseWriter, r *http.Request, cfg config.CookieConfig) *CookieCredentialStore {
	return &CookieCredentialStore{
		w:         w,
		r:         r,
		config:    cfg,
		overrides: make(map[string]*string),
	}
}

func (s *CookieCredentialStore) AccessToken() string {
	return s.get(CookieAccessToken)
}

func (s *CookieCredentialStore) RefreshToken() string {
	return s.get(CookieRefreshToken)
}

func (s *CookieCredentialStore) SetAccessToken(token string) {
	s.set(CookieAccessToken, token, int(s.config.GetAccessTokenMaxAge().Seconds()))
}

func (s *CookieCredentialStore) SetTokens(access, refresh string) {
	s.set(CookieAccessToken, access, int(s.config.GetAccessTokenMaxAge().Seconds()))
	s.set(CookieRefreshToken, refresh, int(s.config.GetRefreshTokenMaxAge().Seconds()))
}

func (s *CookieCredentialStore) Clear() {
	s.expire(CookieAccessToken)
	s.expire(CookieRefreshToken)
}

func (s *CookieCredentialStore) get(name string) string {
	if value, ok := s.overrides[name]; ok {
		if value == nil {
			return ""
		}
		return *value
	}
	cookie, err := s.r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *CookieCredentialStore) set(name, value string, maxAge int) {
	s.overrides[name] = &value
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieCredentialStore) expire(name string) {
	s.overrides[name] = nil
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}
