package middleware

import (
	"errors"
	"net/http"

	"shopsim/domain"
	"shopsim/pkg/logger"

	jsonres "shopsim/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler maps unhandled errors to the shared envelope. Handlers answer
// their own expected failures; this is the net under everything else.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrGoalNotFound):
		code = http.StatusNotFound
		message = err.Error()
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error", err, "path", c.Path())
	}

	if err := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); err != nil {
		logger.Error("failed to write error response", err)
	}
}
