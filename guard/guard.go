// Package guard gates every incoming navigation before any page logic
// runs. It classifies the requested path against a single ordered rule
// table and redirects unauthenticated or unauthorized visitors. The
// guard keeps no state between requests; every navigation is
// re-evaluated from scratch.
package guard

import (
	"net/http"
	"strings"

	"github.com/neurocarehub/webfront/apiclient"
	"github.com/neurocarehub/webfront/internal/locale"
)

// Outcome is the guard's verdict for one navigation.
type Outcome int

const (
	// Allow passes the navigation through to locale resolution.
	Allow Outcome = iota
	// RedirectLogin sends an unauthenticated visitor to the login page,
	// carrying the original path so they can be sent back after login.
	RedirectLogin
	// RedirectHome sends a visitor whose role marker does not fit the
	// requested area back to the locale root.
	RedirectHome
)

// Decision is a pure function of path and cookies.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

type Guard struct {
	rules         []AccessRule
	defaultLocale string
}

func New(rules []AccessRule, defaultLocale string) *Guard {
	return &Guard{rules: rules, defaultLocale: defaultLocale}
}

// Classify decides whether a navigation to path may proceed. hasToken
// reports whether an access-token cookie is present; role is the value
// of the role marker cookie, empty when absent. A missing role marker on
// a protected path is treated as allow: the marker is advisory, the
// backend is the authority. Malformed paths never fail, they fall
// through as public.
func (g *Guard) Classify(path string, hasToken bool, role Role) Decision {
	loc, canonical := locale.Split(path)
	if loc == "" {
		loc = g.defaultLocale
	}

	rule, matched := g.match(canonical)
	if !matched || !rule.Protected {
		return Decision{Outcome: Allow}
	}

	if !hasToken {
		// The redirect query keeps its slashes; browsers and the login
		// handler both accept them unescaped.
		return Decision{
			Outcome:  RedirectLogin,
			Redirect: "/" + loc + "/auth/login?redirect=" + path,
		}
	}

	if role != "" && !rule.allows(role) {
		return Decision{Outcome: RedirectHome, Redirect: "/" + loc}
	}

	return Decision{Outcome: Allow}
}

func (g *Guard) match(canonical string) (AccessRule, bool) {
	for _, rule := range g.rules {
		if strings.HasPrefix(canonical, rule.Prefix) {
			return rule, true
		}
	}
	return AccessRule{}, false
}

// Middleware applies the guard to a page handler. Denials are redirects,
// silent from the page's perspective; allowed navigations continue to
// the next handler.
func (g *Guard) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := g.Classify(r.URL.Path, hasCookie(r, apiclient.CookieAccessToken), roleCookie(r))
		if decision.Outcome != Allow {
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func hasCookie(r *http.Request, name string) bool {
	cookie, err := r.Cookie(name)
	return err == nil && cookie.Value != ""
}

func roleCookie(r *http.Request) Role {
	cookie, err := r.Cookie(apiclient.CookieUserRole)
	if err != nil {
		return ""
	}
	return Role(cookie.Value)
}
