package custody

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

func PostSweepTokenRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.POST("/sweep", postSweepTokenHandler(s))
}

// postSweepTokenHandler moves stray fungible token balances to the
// controller. Controller-only.
func postSweepTokenHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSweepTokenPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		caller, err := parseAddress("caller", *body.Caller)
		if err != nil {
			return err
		}
		token, err := parseAddress("token", *body.Token)
		if err != nil {
			return err
		}
		amount, err := parseAmount("amount", *body.Amount, maxAmountBits)
		if err != nil {
			return err
		}

		if err := s.Custody.SweepToken(ctx, caller, token, amount); err != nil {
			log.Debug().Err(err).Str("token", token.Hex()).Msg("Token sweep rejected")
			return custodyError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
