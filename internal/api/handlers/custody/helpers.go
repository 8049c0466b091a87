package custody

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"

	"github/chapool/lp-custody/internal/api/httperrors"
	custodysvc "github/chapool/lp-custody/internal/custody"
	"github/chapool/lp-custody/internal/types"
)

const maxAmountBits = 256

func fieldError(name, reason string) error {
	return httperrors.NewHTTPValidationError(
		http.StatusBadRequest,
		types.PublicHTTPErrorTypeGeneric,
		"Request payload validation failed",
		[]*types.HTTPValidationErrorDetail{{
			Key:   swag.String(name),
			In:    swag.String("body"),
			Error: swag.String(reason),
		}},
	)
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fieldError(name, "must be a 0x-prefixed hex address")
	}
	return common.HexToAddress(value), nil
}

func parseAmount(name, value string, maxBits int) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fieldError(name, "must be a decimal number")
	}
	if amount.Sign() < 0 {
		return nil, fieldError(name, "must not be negative")
	}
	if amount.BitLen() > maxBits {
		return nil, fieldError(name, "exceeds the representable range")
	}
	return amount, nil
}

// custodyError translates domain errors of the custody service into their
// public HTTP envelopes.
func custodyError(err error) error {
	var insufficientErr *custodysvc.InsufficientLiquidityError
	var slippageErr *custodysvc.SlippageError

	switch {
	case errors.Is(err, custodysvc.ErrInvalidRecipient):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRecipient, "Recipient must not be the zero address")
	case errors.Is(err, custodysvc.ErrDeadlineExceeded):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeDeadlineExceeded, "Request deadline exceeded")
	case errors.As(err, &insufficientErr):
		return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeInsufficientLiquidity, "Requested liquidity exceeds position liquidity", map[string]interface{}{
			"requested": insufficientErr.Requested.String(),
			"available": insufficientErr.Available.String(),
		})
	case errors.As(err, &slippageErr):
		return httperrors.NewHTTPErrorWithDetail(http.StatusConflict, types.PublicHTTPErrorTypeSlippageExceeded, "Realized proceeds undercut the requested minimum", map[string]interface{}{
			"expected": slippageErr.Expected.String(),
			"actual":   slippageErr.Actual.String(),
			"isToken0": slippageErr.IsToken0,
		})
	case errors.Is(err, custodysvc.ErrReentrantCall):
		return httperrors.NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeReentrantCall, "A withdrawal is already in progress")
	case errors.Is(err, custodysvc.ErrUnauthorizedNFT):
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeUnauthorizedNFT, "Custody transfer from untrusted custodian rejected")
	case errors.Is(err, custodysvc.ErrNotController):
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeNotController, "Caller is not the controller")
	case errors.Is(err, custodysvc.ErrInvalidPositionManager):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPositionManager, "Position manager must not be the zero address")
	case errors.Is(err, custodysvc.ErrInvalidController):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Controller must not be the zero address")
	default:
		return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Withdrawal failed").WithInternal(err)
	}
}
