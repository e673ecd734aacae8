package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resource_hub/internal/board"
)

var errNoHistory = echo.NewHTTPError(http.StatusNotFound, "notification history is not enabled")

// newHTTPErrorHandler answers every error with a JSON {"error": ...} body.
func newHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code    = http.StatusInternalServerError
			message any
			httpErr *echo.HTTPError
			vErrs   validator.ValidationErrors
		)

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		case errors.Is(err, board.ErrUnknownFilter):
			code = http.StatusBadRequest
			message = err.Error()
		case errors.As(err, &vErrs):
			fldErrs := make(map[string]string, len(vErrs))
			for _, vErr := range vErrs {
				fldErrs[vErr.Field()] = vErr.Tag()
			}
			code = http.StatusBadRequest
			message = fldErrs
		default:
			message = http.StatusText(code)
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
