package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrsteele09/go-login-server/internal/metrics"
)

func (s *Server) initRoutes(registry *prometheus.Registry) {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware(RouteIndex)...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler(registry))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleware(RouteAuthLogin)...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.HTMLMiddleware(RouteCallback)...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware(RouteAuthLogout)...))
	s.RegisterRouteHandler("GET "+RouteLoginFailed, ChainMiddleware(s.LoginFailedHandler(), s.HTMLMiddleware(RouteLoginFailed)...))

	// Protected routes (require an authenticated session)
	s.RegisterRouteHandler("GET "+RouteAPIUser, ChainMiddleware(s.UserInfoHandler(), s.APIMiddleware(RouteAPIUser, s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleware(RouteProfile, s.RequireSession())...))
}
