package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// Context keys set by Auth and RequireRole.
const (
	CtxUID     = "uid"
	CtxEmail   = "email"
	CtxProfile = "profile"
)

// Auth validates the JWT and injects the session identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthenticated("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthenticated("invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return unauthenticated("invalid token")
			}

			uid, _ := claims.GetSubject()
			if uid == "" {
				return unauthenticated("token missing subject")
			}
			email, _ := claims["email"].(string)

			c.Set(CtxUID, uid)
			c.Set(CtxEmail, email)

			return next(c)
		}
	}
}

func unauthenticated(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(domain.ErrUnauthenticated)
}
