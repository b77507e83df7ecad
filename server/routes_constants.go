package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos.
// Page routes live under a locale segment (e.g. /tr/patient/dashboard).
const (
	// Auth Routes
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"

	// SSO Routes (locale-less; the callback URL is registered with the provider)
	RouteSSOStart    = "/auth/sso"
	RouteSSOCallback = "/auth/sso/callback"

	// Patient Area
	RoutePatientDashboard = "/patient/dashboard"
	RoutePatientTracking  = "/patient/tracking"
	RoutePatientGames     = "/patient/games"

	// Doctor Area
	RouteDoctorDashboard = "/doctor/dashboard"
	RouteDoctorAlerts    = "/doctor/alerts"
	RouteDoctorPatients  = "/doctor/patients"

	// Editor Area
	RouteEditorPosts = "/editor/posts"

	// Public Pages
	RouteAccount = "/account"
	RouteBlog    = "/blog"
	RouteStore   = "/store"
	RouteGames   = "/games"

	// Infrastructure Routes
	RouteHealthz     = "/healthz"
	RouteToastEvents = "/events/toasts"
	RouteStatic      = "/static/"
)
