package middleware

import (
	"context"
	"errors"
	"net/http"

	"checky/internal/caching"
	"checky/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const HeaderAPIKey = "X-API-Key"

// TenantResolver maps a raw API key to the restaurant it authenticates.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, rawKey string) (*caching.CachedAPIKey, error)
}

// APIKeyAuth resolves X-API-Key and stores the tenant on the request context.
// Every route behind it is scoped to that tenant.
func APIKeyAuth(resolver TenantResolver, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawKey := c.Request().Header.Get(HeaderAPIKey)
			if rawKey == "" {
				return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Missing API key", nil))
			}

			entry, err := resolver.ResolveTenant(c.Request().Context(), rawKey)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					return common.SendUnauthorizedError(c)
				}
				logger.Error("api key resolution failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, common.CreateErrorResponse("INTERNAL_ERROR", "Internal server error", nil))
			}

			ctx := common.WithTenantID(c.Request().Context(), entry.TenantID)
			ctx = context.WithValue(ctx, common.APIKeyIDKey, entry.KeyID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(string(common.TenantIDKey), entry.TenantID)
			return next(c)
		}
	}
}
