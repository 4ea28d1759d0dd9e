package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"checky/internal/middleware"
	"checky/internal/services"

	"github.com/labstack/echo/v4"
)

// Version is stamped at build time via -ldflags.
var Version = "1.0.0"

const checkTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool and caching.CacheService.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers serves the unauthenticated health and info endpoints.
type HealthHandlers struct {
	db      Pinger
	cache   Pinger
	storage services.MinioService
	bucket  string
	started time.Time
}

func NewHealthHandlers(db, cache Pinger, storage services.MinioService, bucket string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		bucket:  bucket,
		started: time.Now(),
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck godoc
// @Summary      Dependency health
// @Description  Returns 206 when any dependency is unhealthy.
// @Tags         public
// @Produce      json
// @Success      200  {object}  HealthStatus
// @Success      206  {object}  HealthStatus
// @Router       /api/public/health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, 3),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   Version,
	}
	for name, check := range map[string]func(context.Context) error{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
		"storage":  h.checkStorage,
	} {
		if err := check(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck fails when the database or redis is unreachable. Storage only
// backs menu images, so it does not gate readiness.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
	defer cancel()

	if h.checkDatabase(ctx) != nil || h.checkRedis(ctx) != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Info godoc
// @Summary      Service information
// @Tags         public
// @Produce      json
// @Router       /api/public/info [get]
func (h *HealthHandlers) Info(c echo.Context) error {
	versions := middleware.NewVersionMiddleware()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":               "checky",
		"version":            Version,
		"api_version":        versions.CurrentVersion(),
		"supported_versions": versions.SupportedVersions(),
		"go_version":         runtime.Version(),
		"goroutines":         runtime.NumGoroutine(),
		"uptime":             time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	return h.db.Ping(ctx)
}

func (h *HealthHandlers) checkRedis(ctx context.Context) error {
	return h.cache.Ping(ctx)
}

func (h *HealthHandlers) checkStorage(ctx context.Context) error {
	found, err := h.storage.BucketExists(ctx, h.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %s missing", h.bucket)
	}
	return nil
}
