package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"checky/internal/common"
	"checky/internal/config"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminClaims are the claims accepted on /api/admin tokens.
type AdminClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

const adminRole = "admin"

// AdminJWT guards the admin routes with a bearer token. Tokens are verified
// against ADMIN_JWKS_URL when set, otherwise with the HMAC secret. With
// neither configured every admin request is rejected. The returned func
// stops the JWKS refresher.
func AdminJWT(cfg config.AuthConfig, logger *zap.Logger) (echo.MiddlewareFunc, func(), error) {
	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AdminClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*AdminClaims); ok {
				ctx := context.WithValue(c.Request().Context(), common.AdminSubKey, claims.Subject)
				c.SetRequest(c.Request().WithContext(ctx))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debug("admin token rejected", zap.Error(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	stop := func() {}
	switch {
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("failed to refresh admin JWKS", zap.Error(err))
			},
		})
		if err != nil {
			return nil, stop, err
		}
		jwtConfig.KeyFunc = jwks.Keyfunc
		stop = jwks.EndBackground
	case cfg.JWTSecret != "":
		jwtConfig.SigningKey = []byte(cfg.JWTSecret)
	default:
		logger.Warn("admin auth is not configured; admin routes will reject every request")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin access is disabled")
			}
		}, stop, nil
	}

	return chain(echojwt.WithConfig(jwtConfig), requireAdminRole()), stop, nil
}

func requireAdminRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			claims, ok := token.Claims.(*AdminClaims)
			if !ok || claims.Role != adminRole {
				return echo.NewHTTPError(http.StatusForbidden, "Admin role required")
			}
			return next(c)
		}
	}
}

// GetAdminSubject returns the sub claim of the authenticated admin token.
func GetAdminSubject(ctx context.Context) (string, error) {
	sub, ok := ctx.Value(common.AdminSubKey).(string)
	if !ok || sub == "" {
		return "", errors.New("no admin subject in context")
	}
	return sub, nil
}

func chain(mws ...echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
