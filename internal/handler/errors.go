// Package handler holds the echo handlers of the HTTP API. Handlers decode
// requests, call a service and map the outcome onto a status code; they make
// no authorization decisions of their own.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// statusOf maps an error kind onto its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrDomain):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAuth), errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}. Unclassified errors are logged and
// answered with an opaque message.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Request().URL.Path),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": errs.Message(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ErrorHandler replaces echo's default so framework errors (404 routes, bad
// methods, recovered panics) use the same body shape as handler errors.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, echo.Map{"error": msg})
			return
		}
		_ = respondError(c, log, err)
	}
}
