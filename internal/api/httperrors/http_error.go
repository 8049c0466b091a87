package httperrors

import (
	"fmt"

	"github.com/go-openapi/swag"
	"github/chapool/lp-custody/internal/types"
)

// HTTPError is an echo-compatible error carrying the public error envelope
// plus an optional internal cause that is never serialized.
type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
}

// NewHTTPError returns a new HTTPError with the given code, type and title.
func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
	}
}

// NewHTTPErrorWithDetail returns a new HTTPError with additional machine
// readable details attached.
func NewHTTPErrorWithDetail(code int, errorType, title string, additionalData map[string]interface{}) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.AdditionalData = additionalData
	return e
}

// WithInternal attaches the internal cause and returns the error.
func (e *HTTPError) WithInternal(err error) *HTTPError {
	e.Internal = err
	return e
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", *e.Code, *e.Type, *e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", *e.Code, *e.Type, *e.Title)
}

// HTTPValidationError carries per-field validation failures.
type HTTPValidationError struct {
	types.PublicHTTPValidationError
	Internal error `json:"-"`
}

// NewHTTPValidationError returns a new HTTPValidationError with the given
// code, type, title and field details.
func NewHTTPValidationError(code int, errorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  swag.String(errorType),
				Title: swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s (%d invalid fields)", *e.Code, *e.Type, *e.Title, len(e.ValidationErrors))
}
