package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostWithdrawPayload is the request body for POST /api/v1/custody/withdraw.
type PostWithdrawPayload struct {
	// caller address owning the position (0x-prefixed hex)
	// Required: true
	Caller *string `json:"caller"`

	// position token identifier (decimal string)
	// Required: true
	PositionID *string `json:"positionId"`

	// liquidity to remove (decimal string, uint128)
	// Required: true
	Liquidity *string `json:"liquidity"`

	// minimum acceptable amount of token0 (decimal string)
	// Required: true
	AmountMin0 *string `json:"amountMin0"`

	// minimum acceptable amount of token1 (decimal string)
	// Required: true
	AmountMin1 *string `json:"amountMin1"`

	// request deadline as unix seconds
	// Required: true
	Deadline *int64 `json:"deadline"`

	// proceeds recipient address (0x-prefixed hex)
	// Required: true
	Recipient *string `json:"recipient"`
}

// Validate validates this post withdraw payload.
func (m *PostWithdrawPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("caller", "body", m.Caller); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("positionId", "body", m.PositionID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("liquidity", "body", m.Liquidity); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("amountMin0", "body", m.AmountMin0); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("amountMin1", "body", m.AmountMin1); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("deadline", "body", m.Deadline); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("recipient", "body", m.Recipient); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// WithdrawResponse is the response body for a successful withdrawal.
type WithdrawResponse struct {
	// Required: true
	Amount0 *string `json:"amount0"`
	// Required: true
	Amount1 *string `json:"amount1"`
	// audit record identifier
	// Required: true
	RecordID *string `json:"recordId"`
	// whether custody of the position was returned to the caller
	// Required: true
	CustodyReturned *bool `json:"custodyReturned"`
}

// Validate validates this withdraw response.
func (m *WithdrawResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("amount0", "body", m.Amount0); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("amount1", "body", m.Amount1); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("recordId", "body", m.RecordID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("custodyReturned", "body", m.CustodyReturned); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostRecoverPositionPayload is the request body for POST /api/v1/custody/recover.
type PostRecoverPositionPayload struct {
	// Required: true
	Caller *string `json:"caller"`
	// Required: true
	PositionID *string `json:"positionId"`
}

// Validate validates this post recover position payload.
func (m *PostRecoverPositionPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("caller", "body", m.Caller); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("positionId", "body", m.PositionID); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PostSweepTokenPayload is the request body for POST /api/v1/custody/sweep.
type PostSweepTokenPayload struct {
	// Required: true
	Caller *string `json:"caller"`
	// Required: true
	Token *string `json:"token"`
	// Required: true
	Amount *string `json:"amount"`
}

// Validate validates this post sweep token payload.
func (m *PostSweepTokenPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("caller", "body", m.Caller); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("token", "body", m.Token); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("amount", "body", m.Amount); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PutPositionManagerPayload is the request body for PUT /api/v1/custody/position-manager.
type PutPositionManagerPayload struct {
	// Required: true
	Caller *string `json:"caller"`
	// Required: true
	Address *string `json:"address"`
}

// Validate validates this put position manager payload.
func (m *PutPositionManagerPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("caller", "body", m.Caller); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// PutControllerPayload is the request body for PUT /api/v1/custody/controller.
type PutControllerPayload struct {
	// Required: true
	Caller *string `json:"caller"`
	// Required: true
	Address *string `json:"address"`
}

// Validate validates this put controller payload.
func (m *PutControllerPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("caller", "body", m.Caller); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// WithdrawalRecordResponse is a single audit record.
type WithdrawalRecordResponse struct {
	// Required: true
	ID *string `json:"id"`
	// Required: true
	Caller *string `json:"caller"`
	// Required: true
	PositionID *string `json:"positionId"`
	// Required: true
	Liquidity *string `json:"liquidity"`
	// Required: true
	Amount0 *string `json:"amount0"`
	// Required: true
	Amount1 *string `json:"amount1"`
	// Required: true
	Recipient *string `json:"recipient"`
	// Required: true
	CreatedAt *strfmt.DateTime `json:"createdAt"`
}

// Validate validates this withdrawal record response.
func (m *WithdrawalRecordResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("id", "body", m.ID); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("createdAt", "body", m.CreatedAt); err != nil {
		res = append(res, err)
	} else if err := validate.FormatOf("createdAt", "body", "date-time", m.CreatedAt.String(), formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// GetWithdrawalsResponse is the response body for GET /api/v1/custody/withdrawals.
type GetWithdrawalsResponse struct {
	// Required: true
	Withdrawals []*WithdrawalRecordResponse `json:"withdrawals"`
}

// Validate validates this get withdrawals response.
func (m *GetWithdrawalsResponse) Validate(formats strfmt.Registry) error {
	var res []error

	for i := range m.Withdrawals {
		if m.Withdrawals[i] == nil {
			continue
		}
		if err := m.Withdrawals[i].Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
