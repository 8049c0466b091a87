package custody

import (
	"net/http"
	"time"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	custodysvc "github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

const liquidityBits = 128

func PostWithdrawRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.POST("/withdraw", postWithdrawHandler(s))
}

func postWithdrawHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostWithdrawPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		caller, err := parseAddress("caller", *body.Caller)
		if err != nil {
			return err
		}
		// The zero recipient passes parsing on purpose; rejecting it with
		// InvalidRecipient is the orchestrator's first check.
		recipient, err := parseAddress("recipient", *body.Recipient)
		if err != nil {
			return err
		}
		positionID, err := parseAmount("positionId", *body.PositionID, maxAmountBits)
		if err != nil {
			return err
		}
		liquidity, err := parseAmount("liquidity", *body.Liquidity, liquidityBits)
		if err != nil {
			return err
		}
		amountMin0, err := parseAmount("amountMin0", *body.AmountMin0, maxAmountBits)
		if err != nil {
			return err
		}
		amountMin1, err := parseAmount("amountMin1", *body.AmountMin1, maxAmountBits)
		if err != nil {
			return err
		}

		result, err := s.Custody.Withdraw(ctx, caller, &custodysvc.WithdrawRequest{
			PositionID: positionID,
			Liquidity:  liquidity,
			AmountMin0: amountMin0,
			AmountMin1: amountMin1,
			Deadline:   time.Unix(*body.Deadline, 0),
			Recipient:  recipient,
		})
		if err != nil {
			log.Debug().Err(err).Str("position_id", positionID.String()).Msg("Withdrawal rejected")
			return custodyError(err)
		}

		response := &types.WithdrawResponse{
			Amount0:         swag.String(result.Amount0.String()),
			Amount1:         swag.String(result.Amount1.String()),
			RecordID:        swag.String(result.RecordID),
			CustodyReturned: swag.Bool(result.CustodyReturned),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
