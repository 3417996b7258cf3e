package middleware

import (
	"strings"
	"time"

	"slotpoll/core/constants"
	"slotpoll/core/logger"
	"slotpoll/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the HTTP middlewares shared by all modules
type Middleware struct {
	jwtSecret string
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// OptionalIdentity resolves an identity token into a suggested display name.
// The token is optional and only ever a convenience: requests without one, or
// with an invalid one, proceed anonymously. It never authorizes anything.
func (m *Middleware) OptionalIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.jwtSecret == "" {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			token, appErr := utils.GetTokenFromHeader(c)
			if appErr != nil {
				return next(c)
			}

			claims, appErr := utils.ParseIdentityToken(token, m.jwtSecret)
			if appErr != nil {
				logger.Debug("Middleware:OptionalIdentity:InvalidToken", "error", appErr)
				return next(c)
			}

			if name := strings.TrimSpace(claims.DisplayName); name != "" {
				c.Set(constants.ContextIdentityName, name)
			}
			return next(c)
		}
	}
}

// IdentityName returns the suggested display name set by OptionalIdentity,
// or "" when the request is anonymous.
func IdentityName(c echo.Context) string {
	if v, ok := c.Get(constants.ContextIdentityName).(string); ok {
		return v
	}
	return ""
}

// RequestLogger logs one line per request
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("HTTP:Request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
