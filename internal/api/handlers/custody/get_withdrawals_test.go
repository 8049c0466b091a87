package custody_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/lp-custody/internal/api"
	"github/chapool/lp-custody/internal/test"
	"github/chapool/lp-custody/internal/types"
)

func TestGetWithdrawals(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		seedTestPosition(t, s, 7, 1000)

		res := test.PerformRequest(t, s, "POST", "/api/v1/custody/withdraw", withdrawPayload("7").Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		res = test.PerformRequest(t, s, "GET", "/api/v1/custody/withdrawals", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetWithdrawalsResponse
		test.ParseResponseAndValidate(t, res, &response)

		require.Len(t, response.Withdrawals, 1)
		record := response.Withdrawals[0]
		assert.Equal(t, testCaller, *record.Caller)
		assert.Equal(t, "7", *record.PositionID)
		assert.Equal(t, "400", *record.Liquidity)
		assert.Equal(t, "45", *record.Amount0)
		assert.Equal(t, "67", *record.Amount1)
		assert.Equal(t, testRecipient, *record.Recipient)
	})
}

func TestGetWithdrawalsFiltered(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		seedTestPosition(t, s, 7, 1000)
		seedTestPosition(t, s, 8, 1000)

		res := test.PerformRequest(t, s, "POST", "/api/v1/custody/withdraw", withdrawPayload("7").Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())
		res = test.PerformRequest(t, s, "POST", "/api/v1/custody/withdraw", withdrawPayload("8").Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		res = test.PerformRequest(t, s, "GET", "/api/v1/custody/withdrawals?position_id=8", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetWithdrawalsResponse
		test.ParseResponseAndValidate(t, res, &response)
		require.Len(t, response.Withdrawals, 1)
		assert.Equal(t, "8", *response.Withdrawals[0].PositionID)

		res = test.PerformRequest(t, s, "GET", "/api/v1/custody/withdrawals?caller=0x0000000000000000000000000000000000000099", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		test.ParseResponseAndValidate(t, res, &response)
		assert.Empty(t, response.Withdrawals)
	})
}

func TestGetWithdrawalsLimit(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		seedTestPosition(t, s, 7, 10000)

		for i := 0; i < 3; i++ {
			res := test.PerformRequest(t, s, "POST", "/api/v1/custody/withdraw", withdrawPayload("7").Reader(t), nil)
			require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())
		}

		res := test.PerformRequest(t, s, "GET", "/api/v1/custody/withdrawals?limit=2", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetWithdrawalsResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Len(t, response.Withdrawals, 2)
	})
}
