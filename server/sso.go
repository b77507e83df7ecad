package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OidcConfig holds the lazily-initialized institutional SSO provider.
type OidcConfig struct {
	OidcProvider *oidc.Provider
	OAuth2Config *oauth2.Config
	OidcVerifier *oidc.IDTokenVerifier
}

const (
	ssoStateCookie    = "sso_state"
	ssoVerifierCookie = "sso_verifier"
	ssoLocaleCookie   = "sso_locale"
	ssoCookieMaxAge   = 10 * time.Minute
)

// getOidcConfig discovers the configured issuer on first use. Discovery
// needs network access, so it is deferred past server construction.
func (s *Server) getOidcConfig(ctx context.Context) (*OidcConfig, error) {
	s.ssoLock.Lock()
	defer s.ssoLock.Unlock()
	if s.sso != nil {
		return s.sso, nil
	}

	provider, err := oidc.NewProvider(ctx, s.config.GetSSOIssuerURL())
	if err != nil {
		return nil, fmt.Errorf("[Server getOidcConfig] provider discovery: %w", err)
	}

	clientID := s.config.GetSSOClientID()
	s.sso = &OidcConfig{
		OidcProvider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: s.config.GetSSOClientSecret(),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  s.config.GetBaseURL() + RouteSSOCallback,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		OidcVerifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}
	return s.sso, nil
}

// SSOStartHandler begins the institutional sign-in flow: state and PKCE
// verifier go into short-lived cookies, the visitor goes to the provider.
func (s *Server) SSOStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.SSOEnabled() {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		oidcConfig, err := s.getOidcConfig(r.Context())
		if err != nil {
			http.Error(w, "SSO provider unavailable", http.StatusBadGateway)
			return
		}

		state := oauth2.GenerateVerifier()
		verifier := oauth2.GenerateVerifier()

		s.setFlowCookie(w, ssoStateCookie, state)
		s.setFlowCookie(w, ssoVerifierCookie, verifier)
		s.setFlowCookie(w, ssoLocaleCookie, s.locales.Resolve(r))

		authURL := oidcConfig.OAuth2Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

// SSOCallbackHandler finishes the flow: verify state, exchange the code
// with the PKCE verifier, verify the id_token, then trade it at the
// backend for a platform credential pair.
func (s *Server) SSOCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc := s.flowCookie(r, ssoLocaleCookie)
		if loc == "" || !s.locales.IsSupported(loc) {
			loc = s.config.GetDefaultLocale()
		}

		if errParam := r.FormValue("error"); errParam != "" {
			http.Redirect(w, r, "/"+loc+RouteAuthLogin+"?error=SSO+sign-in+was+cancelled", http.StatusSeeOther)
			return
		}

		state := r.FormValue("state")
		code := r.FormValue("code")
		if state == "" || code == "" || state != s.flowCookie(r, ssoStateCookie) {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		verifier := s.flowCookie(r, ssoVerifierCookie)
		s.clearFlowCookies(w)

		oidcConfig, err := s.getOidcConfig(r.Context())
		if err != nil {
			http.Error(w, "SSO provider unavailable", http.StatusBadGateway)
			return
		}

		oauth2Token, err := oidcConfig.OAuth2Config.Exchange(r.Context(), code, oauth2.VerifierOption(verifier))
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusBadGateway)
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			http.Error(w, "No ID token in response", http.StatusBadGateway)
			return
		}
		if _, err := oidcConfig.OidcVerifier.Verify(r.Context(), rawIDToken); err != nil {
			http.Error(w, fmt.Sprintf("ID token verification failed: %v", err), http.StatusBadGateway)
			return
		}

		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		session, err := api.ExchangeSSO(r.Context(), rawIDToken)
		if err != nil {
			if redirectedToLogin(err) {
				return
			}
			http.Redirect(w, r, "/"+loc+RouteAuthLogin+"?error=SSO+sign-in+failed", http.StatusSeeOther)
			return
		}

		s.setRoleCookie(w, session)
		http.Redirect(w, r, s.postLoginTarget(loc, session, ""), http.StatusSeeOther)
	}
}

func (s *Server) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ssoCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) flowCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{ssoStateCookie, ssoVerifierCookie, ssoLocaleCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}
