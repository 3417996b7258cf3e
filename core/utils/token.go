package utils

import (
	"strings"

	"slotpoll/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// IdentityClaims is the payload of an optional identity token. The token is a
// convenience supplied by an external identity provider; it pre-fills the
// participant name and is never treated as an authorization credential.
type IdentityClaims struct {
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// GetTokenFromHeader extracts a bearer token from the Authorization header.
func GetTokenFromHeader(c echo.Context) (string, *errors.AppError) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing Authorization header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "Authorization header must be 'Bearer {token}'", nil)
	}

	return parts[1], nil
}

// ParseIdentityToken validates an identity token and returns its claims.
func ParseIdentityToken(tokenString string, secret string) (*IdentityClaims, *errors.AppError) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid identity token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrTokenExpired, "Identity token expired or not valid", nil)
	}
	return claims, nil
}
