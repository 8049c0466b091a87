package custody

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

func PostRecoverPositionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.POST("/recover", postRecoverPositionHandler(s))
}

// postRecoverPositionHandler moves a position stranded with the custodian to
// the controller. Controller-only.
func postRecoverPositionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostRecoverPositionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		caller, err := parseAddress("caller", *body.Caller)
		if err != nil {
			return err
		}
		positionID, err := parseAmount("positionId", *body.PositionID, maxAmountBits)
		if err != nil {
			return err
		}

		if err := s.Custody.RecoverPosition(ctx, caller, positionID); err != nil {
			log.Debug().Err(err).Str("position_id", positionID.String()).Msg("Position recovery rejected")
			return custodyError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
