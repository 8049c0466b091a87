package util

import (
	"net/http"

	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/lp-custody/internal/api/httperrors"
	"github/chapool/lp-custody/internal/types"
)

// Validatable is implemented by all request and response payload types.
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody binds the request body to v and runs its payload
// validation, translating failures into an HTTPValidationError.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Failed to bind request body").WithInternal(err)
	}

	if err := v.Validate(strfmt.Default); err != nil {
		return validationError(err)
	}

	return nil
}

// ValidateAndReturn validates the response payload and writes it as JSON.
// Invalid responses indicate a handler bug and are surfaced as 500s.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to validate response payload").WithInternal(err)
	}

	return c.JSON(code, v)
}

func validationError(err error) *httperrors.HTTPValidationError {
	var details []*types.HTTPValidationErrorDetail

	if composite, ok := err.(*openapierrors.CompositeError); ok {
		for _, e := range composite.Errors {
			if v, ok := e.(*openapierrors.Validation); ok {
				details = append(details, &types.HTTPValidationErrorDetail{
					Key:   swag.String(v.Name),
					In:    swag.String(v.In),
					Error: swag.String(v.Error()),
				})
				continue
			}
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String("body"),
				In:    swag.String("body"),
				Error: swag.String(e.Error()),
			})
		}
	} else {
		details = append(details, &types.HTTPValidationErrorDetail{
			Key:   swag.String("body"),
			In:    swag.String("body"),
			Error: swag.String(err.Error()),
		})
	}

	return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Request payload validation failed", details)
}
