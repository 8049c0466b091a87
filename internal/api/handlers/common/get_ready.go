package common

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
)

// statusNotReady is deliberately outside the standard range so load
// balancers never confuse it with an application response.
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler is the readiness probe: all components are initialized
// and the audit database, when enabled, is reachable.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}
		return c.String(http.StatusOK, "Ready.")
	}
}
