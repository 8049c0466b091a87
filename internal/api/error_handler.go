package api

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/chapool/lp-custody/internal/api/httperrors"
	"github/chapool/lp-custody/internal/types"
)

// HTTPErrorHandler serializes HTTPError/HTTPValidationError payloads and
// translates everything else into a generic envelope, optionally hiding
// internal 500 details.
func HTTPErrorHandler(hideInternalServerErrorDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var payload interface{}

		var httpError *httperrors.HTTPError
		var validationError *httperrors.HTTPValidationError
		var echoError *echo.HTTPError

		switch {
		case errors.As(err, &validationError):
			code = int(*validationError.Code)
			payload = validationError
		case errors.As(err, &httpError):
			code = int(*httpError.Code)
			payload = httpError
		case errors.As(err, &echoError):
			code = echoError.Code
			title := http.StatusText(echoError.Code)
			if msg, ok := echoError.Message.(string); ok && !hideInternalServerErrorDetails {
				title = msg
			}
			payload = &types.PublicHTTPError{
				Code:  swag.Int64(int64(echoError.Code)),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(title),
			}
		default:
			code = http.StatusInternalServerError
			title := http.StatusText(http.StatusInternalServerError)
			if !hideInternalServerErrorDetails {
				title = err.Error()
			}
			payload = &types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  swag.String(types.PublicHTTPErrorTypeGeneric),
				Title: swag.String(title),
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", code).Str("path", c.Path()).Msg("Request failed")
		}

		if writeErr := c.JSON(code, payload); writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
