package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/api/middleware"
	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// ctxUID returns the session uid injected by the Auth middleware. An empty
// uid means the route was registered without Auth; reject with 401.
func ctxUID(c echo.Context) (string, error) {
	uid, _ := c.Get(middleware.CtxUID).(string)
	if uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims").SetInternal(domain.ErrUnauthenticated)
	}
	return uid, nil
}

// ctxProfile returns the profile loaded by the RequireRole middleware.
func ctxProfile(c echo.Context) (*domain.UserProfile, error) {
	p, _ := c.Get(middleware.CtxProfile).(*domain.UserProfile)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusForbidden, "profile not loaded").SetInternal(domain.ErrForbidden)
	}
	return p, nil
}
