package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurocarehub/webfront/apiclient"
	"github.com/neurocarehub/webfront/guard"
)

func newGuard() *guard.Guard {
	return guard.New(guard.DefaultRules(), "tr")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		hasToken     bool
		role         guard.Role
		wantOutcome  guard.Outcome
		wantRedirect string
	}{
		{
			name:         "protected path without token redirects to login",
			path:         "/tr/patient/dashboard",
			wantOutcome:  guard.RedirectLogin,
			wantRedirect: "/tr/auth/login?redirect=/tr/patient/dashboard",
		},
		{
			name:        "protected path with token and no role marker is allowed",
			path:        "/tr/patient/dashboard",
			hasToken:    true,
			wantOutcome: guard.Allow,
		},
		{
			name:        "matching role is allowed",
			path:        "/tr/patient/dashboard",
			hasToken:    true,
			role:        guard.RolePatient,
			wantOutcome: guard.Allow,
		},
		{
			name:         "role mismatch redirects to locale root",
			path:         "/tr/doctor/alerts",
			hasToken:     true,
			role:         guard.RolePatient,
			wantOutcome:  guard.RedirectHome,
			wantRedirect: "/tr",
		},
		{
			name:        "editor area admits admins",
			path:        "/en/editor/posts/new",
			hasToken:    true,
			role:        guard.RoleAdmin,
			wantOutcome: guard.Allow,
		},
		{
			name:        "public prefix is allowed regardless of cookies",
			path:        "/tr/blog/some-slug",
			wantOutcome: guard.Allow,
		},
		{
			name:        "store is public",
			path:        "/en/store/products/3",
			wantOutcome: guard.Allow,
		},
		{
			name:        "locale root is public",
			path:        "/tr",
			wantOutcome: guard.Allow,
		},
		{
			name:         "missing locale segment still protects",
			path:         "/patient/dashboard",
			wantOutcome:  guard.RedirectLogin,
			wantRedirect: "/tr/auth/login?redirect=/patient/dashboard",
		},
		{
			name:        "unrecognized path falls through as public",
			path:        "/tr/év/nem-jo",
			wantOutcome: guard.Allow,
		},
		{
			name:        "root path is public",
			path:        "/",
			wantOutcome: guard.Allow,
		},
	}

	g := newGuard()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := g.Classify(tt.path, tt.hasToken, tt.role)
			require.Equal(t, tt.wantOutcome, decision.Outcome)
			require.Equal(t, tt.wantRedirect, decision.Redirect)
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	g := newGuard()

	first := g.Classify("/tr/doctor/alerts", true, guard.RolePatient)
	second := g.Classify("/tr/doctor/alerts", true, guard.RolePatient)

	require.Equal(t, first, second)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	rules := []guard.AccessRule{
		{Prefix: "/doctor/join", Protected: false},
		{Prefix: "/doctor", Protected: true, Roles: []guard.Role{guard.RoleDoctor}},
	}
	g := guard.New(rules, "tr")

	require.Equal(t, guard.Allow, g.Classify("/tr/doctor/join", false, "").Outcome)
	require.Equal(t, guard.RedirectLogin, g.Classify("/tr/doctor/alerts", false, "").Outcome)
}

func serveGuarded(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var pageRendered bool
	handler := newGuard().Middleware(func(w http.ResponseWriter, r *http.Request) {
		pageRendered = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code == http.StatusOK {
		require.True(t, pageRendered)
	} else {
		require.False(t, pageRendered, "denied navigation must not reach the page")
	}
	return w
}

func TestMiddlewareRedirectsWithoutTokenCookie(t *testing.T) {
	w := serveGuarded(t, "/tr/patient/dashboard")

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/tr/auth/login?redirect=/tr/patient/dashboard", w.Header().Get("Location"))
}

func TestMiddlewareAllowsTokenWithoutRoleCookie(t *testing.T) {
	w := serveGuarded(t, "/tr/patient/dashboard",
		&http.Cookie{Name: apiclient.CookieAccessToken, Value: "a1"},
	)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRedirectsRoleMismatchToLocaleRoot(t *testing.T) {
	w := serveGuarded(t, "/tr/doctor/alerts",
		&http.Cookie{Name: apiclient.CookieAccessToken, Value: "a1"},
		&http.Cookie{Name: apiclient.CookieUserRole, Value: "patient"},
	)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/tr", w.Header().Get("Location"))
}

func TestMiddlewareIgnoresEmptyTokenCookie(t *testing.T) {
	w := serveGuarded(t, "/tr/patient/dashboard",
		&http.Cookie{Name: apiclient.CookieAccessToken, Value: ""},
	)

	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestMiddlewarePassesPublicPathsThrough(t *testing.T) {
	w := serveGuarded(t, "/tr/blog/some-slug")

	require.Equal(t, http.StatusOK, w.Code)
}
