package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/api/handler"
	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
)

// statusByCode maps the stable domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	"invalid-credentials":    http.StatusUnauthorized,
	"invalid-email":          http.StatusBadRequest,
	"email-in-use":           http.StatusConflict,
	"weak-password":          http.StatusBadRequest,
	"rate-limited":           http.StatusTooManyRequests,
	"profile-not-found":      http.StatusNotFound,
	"profile-exists":         http.StatusConflict,
	"announcement-not-found": http.StatusNotFound,
	"area-not-found":         http.StatusUnprocessableEntity,
	"forbidden":              http.StatusForbidden,
	"unauthenticated":        http.StatusUnauthorized,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and stable code.
//   - Adds the redirect hint of access guard denials.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var denied *guard.DeniedError
	if errors.As(err, &denied) {
		code := domain.ErrorCode(err)
		return statusByCode[code], handler.ErrorResponse{
			Error:    domain.FromCode(code).Error(),
			Code:     code,
			Redirect: denied.Redirect,
		}
	}

	// Echo's own errors (bind failures, validation, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp := handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
		if he.Internal != nil {
			resp.Code = domain.ErrorCode(he.Internal)
		}
		if resp.Code == "unauthenticated" {
			resp.Redirect = guard.RouteLogin
		}
		return he.Code, resp
	}

	if code := domain.ErrorCode(err); code != "" {
		return statusByCode[code], handler.ErrorResponse{Error: domain.FromCode(code).Error(), Code: code}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}
