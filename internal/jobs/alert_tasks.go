package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeAlertCheck = "inventory:alert-check"
	AlertQueue     = "alerts"
)

type alertCheckPayload struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewAlertCheckTask(tenantID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(alertCheckPayload{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAlertCheck, data,
		asynq.Queue(AlertQueue),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	), nil
}

// HandleAlertCheckTask runs CheckTenant for the restaurant named in the
// payload. Malformed payloads are not retried.
func (a *InventoryAlertService) HandleAlertCheckTask(ctx context.Context, t *asynq.Task) error {
	var payload alertCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode alert check payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.TenantID == uuid.Nil {
		return fmt.Errorf("alert check payload has no tenant: %w", asynq.SkipRetry)
	}

	alerts, err := a.CheckTenant(ctx, payload.TenantID)
	if err != nil {
		return fmt.Errorf("check tenant %s: %w", payload.TenantID, err)
	}
	a.LogAlerts(alerts)
	return nil
}

// NewTaskMux routes queued tasks to their handlers.
func (a *InventoryAlertService) NewTaskMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAlertCheck, a.HandleAlertCheckTask)
	return mux
}

// EnqueueAllTenants queues one alert check per active restaurant. Failed
// enqueues are counted and skipped; Alerts stays empty since the checks run
// on the workers.
func (a *InventoryAlertService) EnqueueAllTenants(ctx context.Context, queue TaskEnqueuer) (*ScanSummary, error) {
	summary := &ScanSummary{Alerts: make(map[string]int), StartedAt: time.Now().UTC()}

	for offset := 0; ; offset += restaurantPageSize {
		restaurants, err := a.restaurantRepo.ListActive(ctx, restaurantPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range restaurants {
			summary.Restaurants++
			task, err := NewAlertCheckTask(r.ID)
			if err == nil {
				_, err = queue.EnqueueContext(ctx, task)
			}
			if err != nil {
				summary.Failed++
				a.logger.Error("failed to enqueue alert check",
					zap.Stringer("tenant_id", r.ID),
					zap.Error(err))
			}
		}
		if len(restaurants) < restaurantPageSize {
			break
		}
	}

	summary.Duration = time.Since(summary.StartedAt).Round(time.Millisecond).String()
	a.logger.Info("inventory alert checks enqueued",
		zap.Int("restaurants", summary.Restaurants),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
