package apiclient

// Backend API endpoint paths, relative to the configured base URL.
// Defined in one place to prevent path mismatches between operations.
const (
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthRefresh  = "/auth/token/refresh"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthSSO      = "/auth/sso/exchange"
	RouteAuthMe       = "/auth/me"
)
