package jobs

import (
	"context"
	"sync"
	"time"

	"checky/internal/metrics"
	"checky/internal/models"
	"checky/internal/repositories"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	restaurantPageSize = 100
	scanConcurrency    = 5
)

const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
	AlertExpiring   = "expiring"
)

// InventoryAlert is one item that needs attention.
type InventoryAlert struct {
	Kind         string          `json:"kind"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	ItemID       uuid.UUID       `json:"inventory_item_id"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Threshold    decimal.Decimal `json:"threshold"`
	Unit         string          `json:"unit"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// ScanSummary reports a scan over every active restaurant.
type ScanSummary struct {
	Restaurants int            `json:"restaurants"`
	Failed      int            `json:"failed"`
	Alerts      map[string]int `json:"alerts"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    string         `json:"duration"`
}

type InventoryAlertService struct {
	restaurantRepo   repositories.RestaurantRepository
	inventoryService services.InventoryService
	metrics          *metrics.Metrics
	logger           *zap.Logger
	lookaheadDays    int
}

func NewInventoryAlertService(restaurantRepo repositories.RestaurantRepository, inventoryService services.InventoryService, m *metrics.Metrics, logger *zap.Logger, lookaheadDays int) *InventoryAlertService {
	days := lookaheadDays
	if days <= 0 {
		days = 7
	}
	return &InventoryAlertService{
		restaurantRepo:   restaurantRepo,
		inventoryService: inventoryService,
		metrics:          m,
		logger:           logger,
		lookaheadDays:    days,
	}
}

// CheckTenant collects out-of-stock, low-stock and expiring items for one
// restaurant. An out-of-stock item is not reported again as low stock.
func (a *InventoryAlertService) CheckTenant(ctx context.Context, tenantID uuid.UUID) ([]InventoryAlert, error) {
	out, err := a.inventoryService.OutOfStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	low, err := a.inventoryService.LowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	expiring, err := a.inventoryService.ExpiringWithin(ctx, tenantID, a.lookaheadDays)
	if err != nil {
		return nil, err
	}

	alerts := make([]InventoryAlert, 0, len(out)+len(low)+len(expiring))
	seen := make(map[uuid.UUID]bool, len(out))
	for _, item := range out {
		seen[item.ID] = true
		alerts = append(alerts, newAlert(AlertOutOfStock, item, item.MinimumStock))
	}
	for _, item := range low {
		if seen[item.ID] {
			continue
		}
		alerts = append(alerts, newAlert(AlertLowStock, item, item.ReorderLevel))
	}
	for _, item := range expiring {
		alert := newAlert(AlertExpiring, item, decimal.Zero)
		alert.ExpiryDate = item.ExpiryDate
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func newAlert(kind string, item *models.InventoryItem, threshold decimal.Decimal) InventoryAlert {
	return InventoryAlert{
		Kind:         kind,
		TenantID:     item.TenantID,
		ItemID:       item.ID,
		ItemCode:     item.ItemCode,
		ItemName:     item.Name,
		CurrentStock: item.CurrentStock,
		Threshold:    threshold,
		Unit:         item.Unit,
	}
}

// LogAlerts writes one line per alert and counts them by kind.
func (a *InventoryAlertService) LogAlerts(alerts []InventoryAlert) map[string]int {
	counts := make(map[string]int, 3)
	for _, alert := range alerts {
		counts[alert.Kind]++
		fields := []zap.Field{
			zap.Stringer("tenant_id", alert.TenantID),
			zap.String("item_code", alert.ItemCode),
			zap.String("item_name", alert.ItemName),
			zap.String("current_stock", alert.CurrentStock.String()),
			zap.String("unit", alert.Unit),
		}
		if alert.ExpiryDate != nil {
			fields = append(fields, zap.Time("expiry_date", *alert.ExpiryDate))
		} else {
			fields = append(fields, zap.String("threshold", alert.Threshold.String()))
		}
		a.logger.Warn("inventory alert: "+alert.Kind, fields...)
	}
	for kind, n := range counts {
		a.metrics.RecordStockAlerts(kind, n)
	}
	return counts
}

// ScanAllTenants pages through active restaurants and checks each one,
// at most scanConcurrency at a time. A failing restaurant is logged and
// skipped.
func (a *InventoryAlertService) ScanAllTenants(ctx context.Context) (*ScanSummary, error) {
	summary := &ScanSummary{Alerts: make(map[string]int, 3), StartedAt: time.Now().UTC()}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, scanConcurrency)
	)
	for offset := 0; ; offset += restaurantPageSize {
		restaurants, err := a.restaurantRepo.ListActive(ctx, restaurantPageSize, offset)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		for _, restaurant := range restaurants {
			wg.Add(1)
			sem <- struct{}{}
			go func(r *models.Restaurant) {
				defer wg.Done()
				defer func() { <-sem }()

				alerts, err := a.CheckTenant(ctx, r.ID)
				mu.Lock()
				defer mu.Unlock()
				summary.Restaurants++
				if err != nil {
					summary.Failed++
					a.logger.Error("inventory alert check failed",
						zap.Stringer("tenant_id", r.ID),
						zap.Error(err))
					return
				}
				for kind, n := range a.LogAlerts(alerts) {
					summary.Alerts[kind] += n
				}
			}(restaurant)
		}
		if len(restaurants) < restaurantPageSize {
			break
		}
	}
	wg.Wait()

	summary.Duration = time.Since(summary.StartedAt).Round(time.Millisecond).String()
	a.logger.Info("inventory alert scan completed",
		zap.Int("restaurants", summary.Restaurants),
		zap.Int("failed", summary.Failed),
		zap.Any("alerts", summary.Alerts))
	return summary, nil
}
