package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/neurocarehub/webfront/apiclient"
	"github.com/neurocarehub/webfront/guard"
	apperrors "github.com/neurocarehub/webfront/internal/errors"
)

// LoginPageHandler displays the login form. An error query parameter
// (set by a failed submission) is rendered back into the page.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, PageData{
			Title: "Log In",
			Error: r.URL.Query().Get("error"),
			Data:  r.URL.Query().Get("redirect"),
		})
	}
}

// LoginSubmissionHandler authenticates against the backend and installs
// the session cookies. On success the visitor is sent back to the page
// that sent them here, or to their role's home.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")
		loc := s.locales.Resolve(r)

		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		session, err := api.Login(r.Context(), email, password)
		if err != nil {
			if redirectedToLogin(err) {
				// A 401 from the login endpoint walks the client's
				// refresh path; with no refresh token it has already
				// redirected this response to the login page.
				return
			}
			target := "/" + loc + RouteAuthLogin + "?error=" + url.QueryEscape(loginErrorMessage(err))
			if redirect := r.FormValue("redirect"); redirect != "" {
				target += "&redirect=" + redirect
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		s.setRoleCookie(w, session)
		http.Redirect(w, r, s.postLoginTarget(loc, session, r.FormValue("redirect")), http.StatusSeeOther)
	}
}

// RegisterSubmissionHandler creates an account and logs the visitor in.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "400 - Bad Request", http.StatusBadRequest)
			return
		}
		loc := s.locales.Resolve(r)

		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		session, err := api.Register(r.Context(), apiclient.RegisterRequest{
			Email:     r.PostFormValue("email"),
			Password:  r.PostFormValue("password"),
			FirstName: r.PostFormValue("first_name"),
			LastName:  r.PostFormValue("last_name"),
		})
		if err != nil {
			if redirectedToLogin(err) {
				return
			}
			http.Redirect(w, r, "/"+loc+RouteAuthRegister+"?error="+url.QueryEscape(loginErrorMessage(err)), http.StatusSeeOther)
			return
		}

		s.setRoleCookie(w, session)
		http.Redirect(w, r, s.postLoginTarget(loc, session, ""), http.StatusSeeOther)
	}
}

// LogoutHandler invalidates the session. The backend call is best
// effort; the cookies are always cleared.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc := s.locales.Resolve(r)

		api, err := s.apiFor(w, r)
		if err == nil {
			api.Logout(r.Context())
		}
		s.clearRoleCookie(w)

		http.Redirect(w, r, "/"+loc, http.StatusSeeOther)
	}
}

// setRoleCookie installs the advisory role marker the route guard
// consults. The role comes from the access token's claims, with the user
// object as fallback.
func (s *Server) setRoleCookie(w http.ResponseWriter, session apiclient.Session) {
	role := session.User.Role
	if identity, err := apiclient.ParseIdentity(session.Tokens.Access); err == nil && identity.Role != "" {
		role = identity.Role
	}
	if role == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     apiclient.CookieUserRole,
		Value:    role,
		Path:     "/",
		MaxAge:   int(s.config.GetRefreshTokenMaxAge().Seconds()),
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRoleCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     apiclient.CookieUserRole,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

// postLoginTarget picks where a fresh session lands: the page that
// redirected to login if it is a same-site path, otherwise the role's
// home page.
func (s *Server) postLoginTarget(loc string, session apiclient.Session, redirect string) string {
	if isSafeRedirect(redirect) {
		return redirect
	}
	switch guard.Role(session.User.Role) {
	case guard.RolePatient:
		return "/" + loc + RoutePatientDashboard
	case guard.RoleDoctor:
		return "/" + loc + RouteDoctorDashboard
	case guard.RoleEditor, guard.RoleAdmin:
		return "/" + loc + RouteEditorPosts
	default:
		return "/" + loc
	}
}

// isSafeRedirect admits same-site absolute paths only. "//host" and
// scheme-carrying values would send the visitor off-site.
func isSafeRedirect(redirect string) bool {
	return strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") && !strings.Contains(redirect, "://")
}

func loginErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	if apperrors.As(err, &apiErr) {
		if msg := apiErr.UserMessage(); msg != "" {
			return msg
		}
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest {
			return "Invalid email or password"
		}
	}
	log.Debug().Err(err).Msg("login attempt failed")
	return "Login failed, please try again"
}
