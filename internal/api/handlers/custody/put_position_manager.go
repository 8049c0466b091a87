package custody

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

func PutPositionManagerRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.PUT("/position-manager", putPositionManagerHandler(s))
}

// putPositionManagerHandler replaces the trusted position manager reference.
// Controller-only.
func putPositionManagerHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PutPositionManagerPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		caller, err := parseAddress("caller", *body.Caller)
		if err != nil {
			return err
		}
		// The zero address passes parsing on purpose; the service rejects it
		// with InvalidPositionManager so the check lives in one place.
		address, err := parseAddress("address", *body.Address)
		if err != nil {
			return err
		}

		manager, err := s.ManagerFactory(address)
		if err != nil {
			log.Debug().Err(err).Str("address", address.Hex()).Msg("Failed to construct position manager")
			return custodyError(errors.Wrap(err, "failed to construct position manager"))
		}

		if err := s.Custody.SetPositionManager(caller, manager); err != nil {
			log.Debug().Err(err).Str("address", address.Hex()).Msg("Position manager update rejected")
			return custodyError(err)
		}

		s.PositionManager = manager

		return c.NoContent(http.StatusNoContent)
	}
}
