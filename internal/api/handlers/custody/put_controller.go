package custody

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

func PutControllerRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.PUT("/controller", putControllerHandler(s))
}

// putControllerHandler hands the controller role to a new address.
// Controller-only.
func putControllerHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PutControllerPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		caller, err := parseAddress("caller", *body.Caller)
		if err != nil {
			return err
		}
		newController, err := parseAddress("address", *body.Address)
		if err != nil {
			return err
		}

		if err := s.Custody.TransferControl(caller, newController); err != nil {
			log.Debug().Err(err).Str("address", newController.Hex()).Msg("Control transfer rejected")
			return custodyError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
