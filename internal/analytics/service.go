package analytics

import (
	"context"
	"fmt"
	"time"

	"checky/internal/caching"
	"checky/internal/models"
	"checky/internal/repositories"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultTopItems = 5

// Service builds per-restaurant sales summaries and keeps them in the
// tenant cache for ttl.
type Service struct {
	sales     repositories.SalesRepository
	inventory services.InventoryService
	cache     caching.CacheService
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(sales repositories.SalesRepository, inventory services.InventoryService, cache caching.CacheService, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		sales:     sales,
		inventory: inventory,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// SalesSummary aggregates orders created in [from, to).
func (s *Service) SalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time, topN int) (*models.SalesSummary, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("invalid range: to must be after from")
	}
	if topN <= 0 {
		topN = defaultTopItems
	}

	if s.cache != nil {
		cached, err := s.cache.GetSalesSummary(ctx, tenantID, from, to)
		if err != nil {
			s.logger.Warn("sales summary cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.sales.Summary(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	summary.TenantID = tenantID
	summary.From = from
	summary.To = to

	if summary.OrderCount > 0 {
		summary.AverageOrderValue = summary.Revenue.Div(decimal.NewFromInt(int64(summary.OrderCount))).Round(2)
	} else {
		summary.AverageOrderValue = decimal.Zero
	}

	top, err := s.sales.TopItems(ctx, tenantID, from, to, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank menu items: %w", err)
	}
	summary.TopItems = top

	low, err := s.inventory.LowStock(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}
	summary.LowStockItems = len(low)
	summary.GeneratedAt = s.now().UTC()

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetSalesSummary(ctx, summary, s.ttl); err != nil {
			s.logger.Warn("sales summary cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return summary, nil
}
