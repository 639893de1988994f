package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const adminIDContextKey = "admin_id"

// AdminAuth guards back-office routes. It expects a bearer token signed with
// the shared secret and an "admin" role claim.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, _ := claims["role"].(string)
			if role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}

			if sub, _ := claims["sub"].(string); sub != "" {
				if adminID, err := uuid.Parse(sub); err == nil {
					c.Set(adminIDContextKey, adminID)
				}
			}

			return next(c)
		}
	}
}

func adminIDFromContext(c echo.Context) uuid.UUID {
	if id, ok := c.Get(adminIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
