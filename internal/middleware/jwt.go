package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vendortrack/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthConfig selects how bearer tokens are verified. When JWKSURL is set
// tokens are checked against the remote key set; otherwise the shared
// HMAC secret is used.
type AuthConfig struct {
	Secret  string
	JWKSURL string
}

// NewJWTMiddleware builds the authentication middleware. The verified
// token subject is placed on the request context as the user id.
func NewJWTMiddleware(cfg AuthConfig) (echo.MiddlewareFunc, error) {
	var keyFunc jwt.Keyfunc

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:  time.Hour,
			RefreshRateLimit: time.Minute,
			RefreshErrorHandler: func(err error) {
				// Keep serving with the cached key set
			},
		})
		if err != nil {
			return nil, err
		}
		keyFunc = jwks.Keyfunc
	} else {
		secret := []byte(cfg.Secret)
		keyFunc = func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			token, err := jwt.Parse(tokenString, keyFunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}

			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid subject format")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}, nil
}
