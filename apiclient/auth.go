package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// User is the backend's user object as returned by the auth endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// TokenPair is the opaque bearer credential pair issued at login and
// replaced wholesale on refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the result of a successful login, registration, or SSO exchange.
type Session struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields of the registration form.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

type ssoExchangeRequest struct {
	IDToken string `json:"id_token"`
}

// Login authenticates against the backend and stores the issued
// credential pair on success.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session
	if err := c.Post(ctx, RouteAuthLogin, loginRequest{Email: email, Password: password}, &session); err != nil {
		return Session{}, err
	}
	c.credentials.SetTokens(session.Tokens.Access, session.Tokens.Refresh)
	return session, nil
}

// Register creates an account and stores the issued credential pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	var session Session
	if err := c.Post(ctx, RouteAuthRegister, req, &session); err != nil {
		return Session{}, err
	}
	c.credentials.SetTokens(session.Tokens.Access, session.Tokens.Refresh)
	return session, nil
}

// ExchangeSSO trades a verified OIDC id_token for a platform credential
// pair and stores it.
func (c *Client) ExchangeSSO(ctx context.Context, idToken string) (Session, error) {
	var session Session
	if err := c.Post(ctx, RouteAuthSSO, ssoExchangeRequest{IDToken: idToken}, &session); err != nil {
		return Session{}, err
	}
	c.credentials.SetTokens(session.Tokens.Access, session.Tokens.Refresh)
	return session, nil
}

// Me returns the current user's profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.Get(ctx, RouteAuthMe, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout invalidates the refresh token server-side on a best-effort
// basis and always clears the local credential pair. It never fails.
func (c *Client) Logout(ctx context.Context) {
	if refreshToken := c.credentials.RefreshToken(); refreshToken != "" {
		if err := c.postLogout(ctx, refreshToken); err != nil {
			log.Debug().Err(err).Msg("best-effort logout call failed")
		}
	}
	c.credentials.Clear()
}

// postLogout bypasses Do so a failed logout can never trigger a refresh
// cycle or a notification.
func (c *Client) postLogout(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(logoutRequest{Refresh: refreshToken})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPost, RouteAuthLogout, body)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}
