// Package locale resolves the display language for a request and splits
// locale-prefixed paths into their locale and canonical parts.
package locale

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/neurocarehub/webfront/internal/config"
)

// CookieName is the locale preference cookie. The name is part of the
// contract other code depends on.
const CookieName = "NEXT_LOCALE"

// Split strips a leading two-character locale segment from path. If the
// first segment is not exactly two characters the path is treated as
// already canonical and the returned locale is empty. Split never fails
// on malformed input.
func Split(path string) (locale, canonical string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", "/"
	}
	segment, rest, _ := strings.Cut(trimmed, "/")
	if len(segment) != 2 {
		return "", path
	}
	if rest == "" {
		return segment, "/"
	}
	return segment, "/" + rest
}

// Resolver selects a supported locale for each request.
type Resolver struct {
	config    config.LocaleConfig
	supported config.SupportedLocales
	codes     []string
	matcher   language.Matcher
}

func NewResolver(cfg config.LocaleConfig) *Resolver {
	supported := cfg.GetSupportedLocales()

	// The default locale must be first: language.Matcher falls back to
	// the first tag when nothing matches.
	codes := []string{cfg.GetDefaultLocale()}
	for code := range supported {
		if code != cfg.GetDefaultLocale() {
			codes = append(codes, code)
		}
	}
	tags := make([]language.Tag, len(codes))
	for i, code := range codes {
		tags[i] = language.Make(code)
	}

	return &Resolver{
		config:    cfg,
		supported: supported,
		codes:     codes,
		matcher:   language.NewMatcher(tags),
	}
}

// Resolve picks the locale for a request: path segment first, then the
// preference cookie, then Accept-Language negotiation, then the default.
func (res *Resolver) Resolve(r *http.Request) string {
	if fromPath, _ := Split(r.URL.Path); res.supported.IsSupported(fromPath) {
		return fromPath
	}
	if cookie, err := r.Cookie(CookieName); err == nil && res.supported.IsSupported(cookie.Value) {
		return cookie.Value
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			if _, index, conf := res.matcher.Match(tags...); conf > language.No {
				return res.codes[index]
			}
		}
	}
	return res.config.GetDefaultLocale()
}

// IsSupported reports whether code is a locale this deployment serves.
func (res *Resolver) IsSupported(code string) bool {
	return res.supported.IsSupported(code)
}
