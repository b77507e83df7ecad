package server

import (
	"net/http"

	apperrors "github.com/neurocarehub/webfront/internal/errors"
	"github.com/neurocarehub/webfront/internal/locale"
)

// RootHandler sends a bare "/" to the resolved locale's landing page.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+s.locales.Resolve(r), http.StatusSeeOther)
	}
}

// LandingPageHandler serves /{locale}.
func (s *Server) LandingPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.locales.IsSupported(r.PathValue("locale")) {
			s.LocaleRedirectHandler()(w, r)
			return
		}
		s.renderPage(w, r, PageData{Title: "Welcome", Locale: r.PathValue("locale")})
	}
}

// LocaleRedirectHandler catches paths without a supported locale segment
// and re-issues them under the resolved locale. Paths that already carry
// a supported locale but matched no page are a 404.
func (s *Server) LocaleRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fromPath, _ := locale.Split(r.URL.Path); s.locales.IsSupported(fromPath) {
			s.NotFoundHandler()(w, r)
			return
		}
		http.Redirect(w, r, "/"+s.locales.Resolve(r)+r.URL.Path, http.StatusSeeOther)
	}
}

// HealthzHandler reports liveness for the load balancer.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// PatientDashboardHandler renders the patient's self-tracking overview.
// Backend data is fetched through the session client; a terminal
// authorization failure has already redirected the response, and any
// other failure falls back to an empty state (the toast channel carries
// the user-facing message).
func (s *Server) PatientDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		var summary struct {
			Streak  int              `json:"streak"`
			Entries []map[string]any `json:"entries"`
		}
		if err := api.Get(r.Context(), "/patients/me/summary", &summary); err != nil {
			if redirectedToLogin(err) {
				return
			}
			s.renderPage(w, r, PageData{Title: "My Dashboard"})
			return
		}
		s.renderPage(w, r, PageData{Title: "My Dashboard", Data: summary})
	}
}

// DoctorAlertsHandler renders the doctor's patient-alert queue.
func (s *Server) DoctorAlertsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		var alerts []map[string]any
		if err := api.Get(r.Context(), "/doctors/me/alerts", &alerts); err != nil {
			if redirectedToLogin(err) {
				return
			}
			s.renderPage(w, r, PageData{Title: "Patient Alerts"})
			return
		}
		s.renderPage(w, r, PageData{Title: "Patient Alerts", Data: alerts})
	}
}

// BlogIndexHandler renders the public blog listing. Public pages still
// go through the session client so the locale header and error handling
// stay uniform.
func (s *Server) BlogIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		var posts []map[string]any
		if err := api.Get(r.Context(), "/blog/posts", &posts); err != nil {
			if redirectedToLogin(err) {
				return
			}
			s.renderPage(w, r, PageData{Title: "Blog"})
			return
		}
		s.renderPage(w, r, PageData{Title: "Blog", Data: posts})
	}
}

// AccountHandler renders the signed-in user's profile. Without a valid
// session the backend answers 401 and the session client redirects to
// login.
func (s *Server) AccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api, err := s.apiFor(w, r)
		if err != nil {
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		user, err := api.Me(r.Context())
		if err != nil {
			if redirectedToLogin(err) {
				return
			}
			s.renderPage(w, r, PageData{Title: "My Account"})
			return
		}
		s.renderPage(w, r, PageData{Title: "My Account", User: &user})
	}
}

// redirectedToLogin reports whether the session client already redirected
// this response as part of a terminal authorization failure.
func redirectedToLogin(err error) bool {
	return apperrors.Is(err, apperrors.ErrSessionExpired)
}
