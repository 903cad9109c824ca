package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// RequireRole loads the caller's profile and applies the route rules for
// role. Must run after Auth. The loaded profile is stored under CtxProfile.
func RequireRole(profiles ports.ProfileRepository, role domain.Role) echo.MiddlewareFunc {
	route := guard.Route{RequiresAuth: true, Role: role}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get(CtxUID).(string)
			if uid == "" {
				return guard.Decide(nil, nil, route).Err()
			}
			identity := &domain.Identity{UID: uid}

			profile, err := profiles.Get(c.Request().Context(), uid)
			if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
				return err
			}
			if err := guard.Decide(identity, profile, route).Err(); err != nil {
				return err
			}

			c.Set(CtxProfile, profile)
			return next(c)
		}
	}
}
