package handlers

import (
	"context"
	"errors"
	"net/http"

	"checky/internal/jobs"
	"checky/internal/jobs/background"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JobRunner is implemented by *background.JobScheduler.
type JobRunner interface {
	Status() []background.JobStatus
	RunNow(name string) error
}

// AlertChecker is implemented by *jobs.InventoryAlertService.
type AlertChecker interface {
	CheckTenant(ctx context.Context, tenantID uuid.UUID) ([]jobs.InventoryAlert, error)
	ScanAllTenants(ctx context.Context) (*jobs.ScanSummary, error)
}

type JobHandlers struct {
	runner JobRunner
	alerts AlertChecker
}

func NewJobHandlers(runner JobRunner, alerts AlertChecker) *JobHandlers {
	return &JobHandlers{runner: runner, alerts: alerts}
}

// InventoryAlerts godoc
// @Summary      Current stock alerts for the restaurant
// @Tags         inventory
// @Produce      json
// @Security     ApiKeyAuth
// @Router       /api/inventory/alerts [get]
func (h *JobHandlers) InventoryAlerts(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	alerts, err := h.alerts.CheckTenant(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"alerts": alerts, "count": len(alerts)})
}

func (h *JobHandlers) ListJobs(c echo.Context) error {
	if h.runner == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"jobs": []background.JobStatus{}, "enabled": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": h.runner.Status(), "enabled": true})
}

// RunJob triggers a scheduled job asynchronously.
func (h *JobHandlers) RunJob(c echo.Context) error {
	if h.runner == nil {
		return respondError(c, echo.NewHTTPError(http.StatusServiceUnavailable, "Background jobs are disabled"))
	}
	name := c.Param("name")
	if err := h.runner.RunNow(name); err != nil {
		if errors.Is(err, background.ErrUnknownJob) {
			return respondError(c, echo.NewHTTPError(http.StatusNotFound, "Job not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}

// ScanAlerts runs the stock alert scan across all restaurants and waits for it.
func (h *JobHandlers) ScanAlerts(c echo.Context) error {
	summary, err := h.alerts.ScanAllTenants(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
