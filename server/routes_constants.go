package server

const (
	RouteIndex       = "/"
	RouteHealth      = "/health"
	RouteMetrics     = "/metrics"
	RouteAuthLogin   = "/auth/login"
	RouteCallback    = "/auth/callback"
	RouteAuthLogout  = "/auth/logout"
	RouteAPIUser     = "/api/user"
	RouteProfile     = "/profile"
	RouteLoginFailed = "/login-failed"
)
