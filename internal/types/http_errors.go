package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// Public error type identifiers surfaced in HTTP error payloads.
const (
	PublicHTTPErrorTypeGeneric                = "generic"
	PublicHTTPErrorTypeInvalidRecipient       = "INVALID_RECIPIENT"
	PublicHTTPErrorTypeDeadlineExceeded       = "DEADLINE_EXCEEDED"
	PublicHTTPErrorTypeInsufficientLiquidity  = "INSUFFICIENT_LIQUIDITY"
	PublicHTTPErrorTypeSlippageExceeded       = "SLIPPAGE_EXCEEDED"
	PublicHTTPErrorTypeUnauthorizedNFT        = "UNAUTHORIZED_NFT"
	PublicHTTPErrorTypeReentrantCall          = "REENTRANT_CALL"
	PublicHTTPErrorTypeNotController          = "NOT_CONTROLLER"
	PublicHTTPErrorTypeInvalidPositionManager = "INVALID_POSITION_MANAGER"
)

// PublicHTTPError is the wire representation of a failed request.
type PublicHTTPError struct {
	// HTTP status code
	// Required: true
	Code *int64 `json:"code"`

	// error type identifier
	// Required: true
	Type *string `json:"type"`

	// short human readable title
	// Required: true
	Title *string `json:"title"`

	// optional machine readable details
	AdditionalData map[string]interface{} `json:"additionalData,omitempty"`
}

// Validate validates this public HTTP error.
func (m *PublicHTTPError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("code", "body", m.Code); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("type", "body", m.Type); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("title", "body", m.Title); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// HTTPValidationErrorDetail describes a single invalid request field.
type HTTPValidationErrorDetail struct {
	// Required: true
	Key *string `json:"key"`
	// Required: true
	In *string `json:"in"`
	// Required: true
	Error *string `json:"error"`
}

// PublicHTTPValidationError is a PublicHTTPError carrying per-field details.
type PublicHTTPValidationError struct {
	PublicHTTPError

	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}
