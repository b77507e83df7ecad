package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/neurocarehub/webfront/apiclient"
	"github.com/neurocarehub/webfront/guard"
	"github.com/neurocarehub/webfront/internal/config"
	"github.com/neurocarehub/webfront/internal/locale"
	"github.com/neurocarehub/webfront/notify"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config
	guard      *guard.Guard
	locales    *locale.Resolver
	toasts     *notify.Center
	httpClient *http.Client

	sso     *OidcConfig
	ssoLock sync.Mutex
}

func New(cfg config.Config) (*Server, error) {
	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		guard:      guard.New(guard.DefaultRules(), cfg.GetDefaultLocale()),
		locales:    locale.NewResolver(cfg),
		toasts:     notify.NewCenter(),
		httpClient: &http.Client{Timeout: cfg.GetAPITimeout()},
	}
	s.env = cfg.GetEnv()
	s.fileServer = FileServerHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Toasts exposes the notification center so other surfaces (the SSE
// stream, tests) can subscribe to what the session client emits.
func (s *Server) Toasts() *notify.Center {
	return s.toasts
}

// apiFor builds the per-request session client: credentials come from
// the request's cookies, error toasts go to the notification center, and
// a terminal authorization failure redirects this response to login.
func (s *Server) apiFor(w http.ResponseWriter, r *http.Request) (*apiclient.Client, error) {
	return apiclient.NewClient(apiclient.Config{
		BaseURL:     s.config.GetAPIBaseURL(),
		HTTPClient:  s.httpClient,
		Credentials: apiclient.NewCookieCredentialStore(w, r, s.config),
		Notifier:    s.toasts,
		Navigator: apiclient.NavigatorFunc(func(path string) {
			http.Redirect(w, r, path, http.StatusSeeOther)
		}),
		Locale:        func() string { return s.locales.Resolve(r) },
		DefaultLocale: s.config.GetDefaultLocale(),
	})
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
