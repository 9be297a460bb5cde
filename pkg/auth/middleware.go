package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	DefaultKeyName = "X-API-Key"
	principalKey   = "principal"
)

type GetPrincipalFN func(ctx context.Context, apikey string) (*Principal, error)

type APIKeyConfig struct {
	Skipper      middleware.Skipper
	KeyName      string
	GetPrincipal GetPrincipalFN
}

// APIKeyAuth resolves the request's API key, from the header or the query
// string, to a Principal stored in the echo context.
func APIKeyAuth(config APIKeyConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}
	if config.KeyName == "" {
		config.KeyName = DefaultKeyName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			value, err := getAPIKeyFromRequest(config.KeyName, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			p, err := config.GetPrincipal(c.Request().Context(), value)
			switch {
			case err != nil:
				return echo.ErrUnauthorized
			case p == nil:
				return echo.ErrUnauthorized
			default:
				c.Set(principalKey, p)
				return next(c)
			}
		}
	}
}

// RequireRole rejects requests whose principal may not act with role. It
// must run after APIKeyAuth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if p == nil {
				return echo.ErrUnauthorized
			}

			if !Authorize(p, role) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("role %q required", role))
			}

			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) *Principal {
	p, _ := c.Get(principalKey).(*Principal)
	return p
}

func getAPIKeyFromRequest(key string, c echo.Context) (string, error) {
	if value := c.Request().Header.Get(key); value != "" {
		return value, nil
	}

	if value := c.QueryParam(key); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("no apikey '%s' as query param or header", key)
}
