package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/api/handlers"
	"github/chapool/lp-custody/internal/api/middleware"
)

// Init wires the echo instance, middlewares and all routes of the server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = api.HTTPErrorHandler(s.Config.Echo.HideInternalServerErrorDetails)

	s.Echo.Use(echomiddleware.Recover())
	s.Echo.Use(middleware.Logger())
	s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: s.Metrics.Registry,
	}))

	management := s.Echo.Group("/-")
	if s.Config.Management.Secret != "" {
		management.Use(echomiddleware.KeyAuthWithConfig(echomiddleware.KeyAuthConfig{
			KeyLookup: "query:mgmt_secret",
			Validator: func(key string, _ echo.Context) (bool, error) {
				return key == s.Config.Management.Secret, nil
			},
		}))
	}
	management.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.Metrics.Registry,
	}))

	s.Router = &api.Router{
		Root:         s.Echo.Group(""),
		Management:   management,
		APIV1Custody: s.Echo.Group("/api/v1/custody"),
	}

	handlers.AttachAllRoutes(s)
}
