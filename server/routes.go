package server

func (s *Server) initRoutes() {
	// Infrastructure routes bypass the guard: the matcher covers
	// navigable pages, not assets or plumbing.
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteFunc("GET "+RouteToastEvents, s.ToastStreamHandler())
	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.fileServer.ServeHTTP, s.CacheMiddleware, s.CompressionMiddleware))

	// AUTH
	s.RegisterRouteHandler("GET /{locale}"+RouteAuthLogin, ChainMiddleware(s.LoginPageHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("POST /{locale}"+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteAuthRegister, ChainMiddleware(s.PageHandler("Create Account"), s.PageMiddleware()...))
	s.RegisterRouteHandler("POST /{locale}"+RouteAuthRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.PageMiddleware()...))

	// Institutional SSO; the callback URL is locale-less because it is
	// registered verbatim with the identity provider.
	s.RegisterRouteHandler("GET /{locale}"+RouteSSOStart, ChainMiddleware(s.SSOStartHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSSOCallback, ChainMiddleware(s.SSOCallbackHandler(), s.LoggingMiddleware, s.RecoverMiddleware))

	// Patient area
	s.RegisterRouteHandler("GET /{locale}"+RoutePatientDashboard, ChainMiddleware(s.PatientDashboardHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RoutePatientTracking, ChainMiddleware(s.PageHandler("Symptom Tracking"), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RoutePatientGames, ChainMiddleware(s.PageHandler("Cognitive Exercises"), s.PageMiddleware()...))

	// Doctor area
	s.RegisterRouteHandler("GET /{locale}"+RouteDoctorDashboard, ChainMiddleware(s.PageHandler("Doctor Dashboard"), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteDoctorAlerts, ChainMiddleware(s.DoctorAlertsHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteDoctorPatients, ChainMiddleware(s.PageHandler("My Patients"), s.PageMiddleware()...))

	// Editor area
	s.RegisterRouteHandler("GET /{locale}"+RouteEditorPosts, ChainMiddleware(s.PageHandler("Manage Posts"), s.PageMiddleware()...))

	// Public pages
	s.RegisterRouteHandler("GET /{locale}"+RouteAccount, ChainMiddleware(s.AccountHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteBlog, ChainMiddleware(s.BlogIndexHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteBlog+"/{slug}", ChainMiddleware(s.PageHandler("Blog"), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteStore, ChainMiddleware(s.PageHandler("Store"), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET /{locale}"+RouteGames, ChainMiddleware(s.PageHandler("Brain Games"), s.PageMiddleware()...))

	// Locale roots and fallback
	s.RegisterRouteFunc("GET /{$}", s.RootHandler())
	s.RegisterRouteHandler("GET /{locale}", ChainMiddleware(s.LandingPageHandler(), s.LoggingMiddleware, s.RecoverMiddleware, s.FrameSecurityMiddleware))
	s.RegisterRouteFunc("GET /", s.LocaleRedirectHandler())
}
