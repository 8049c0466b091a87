// Package handlers attaches all route handlers to the server's router.
package handlers

import (
	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/api/handlers/common"
	"github/chapool/lp-custody/internal/api/handlers/custody"
)

// AttachAllRoutes registers every route of the service.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		custody.PostWithdrawRoute(s),
		custody.GetWithdrawalsRoute(s),
		custody.PostRecoverPositionRoute(s),
		custody.PostSweepTokenRoute(s),
		custody.PutPositionManagerRoute(s),
		custody.PutControllerRoute(s),
	}
}
