package custody

import (
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/api/httperrors"
	"github/chapool/lp-custody/internal/custody/audit"
	"github/chapool/lp-custody/internal/types"
	"github/chapool/lp-custody/internal/util"
)

const maxListLimit = 100

func GetWithdrawalsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Custody.GET("/withdrawals", getWithdrawalsHandler(s))
}

func getWithdrawalsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		filter := audit.Filter{
			Caller:     c.QueryParam("caller"),
			PositionID: c.QueryParam("position_id"),
		}

		if v := c.QueryParam("limit"); v != "" {
			if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= maxListLimit {
				filter.Limit = limit
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
				filter.Offset = offset
			}
		}

		records, err := s.Audit.List(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list withdrawal records")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to list withdrawals")
		}

		response := &types.GetWithdrawalsResponse{
			Withdrawals: make([]*types.WithdrawalRecordResponse, 0, len(records)),
		}
		for _, record := range records {
			createdAt := strfmt.DateTime(record.CreatedAt)
			response.Withdrawals = append(response.Withdrawals, &types.WithdrawalRecordResponse{
				ID:         swag.String(record.ID),
				Caller:     swag.String(record.Caller),
				PositionID: swag.String(record.PositionID),
				Liquidity:  swag.String(record.Liquidity),
				Amount0:    swag.String(record.Amount0),
				Amount1:    swag.String(record.Amount1),
				Recipient:  swag.String(record.Recipient),
				CreatedAt:  &createdAt,
			})
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
