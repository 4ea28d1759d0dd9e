package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"checky/internal/caching"
	"checky/internal/models"
	"checky/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.SalesSummary, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SalesSummary), args.Error(1)
}

func (m *MockSalesRepository) TopItems(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]models.ItemSales, error) {
	args := m.Called(ctx, tenantID, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItemSales), args.Error(1)
}

// lowStockInventory only answers LowStock; any other call panics.
type lowStockInventory struct {
	services.InventoryService
	items []*models.InventoryItem
	err   error
	calls int
}

func (l *lowStockInventory) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	l.calls++
	return l.items, l.err
}

func newCache(t *testing.T) caching.CacheService {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return caching.NewRedisCacheService(client)
}

func TestSalesSummary_ComputesAndCaches(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	repo := new(MockSalesRepository)
	repo.On("Summary", ctx, tenantID, from, to).Return(&models.SalesSummary{
		OrderCount: 3,
		Revenue:    decimal.RequireFromString("100.00"),
	}, nil).Once()
	repo.On("TopItems", ctx, tenantID, from, to, defaultTopItems).Return([]models.ItemSales{
		{MenuItemID: uuid.New(), Name: "Masala Dosa", Quantity: 7, Revenue: decimal.RequireFromString("84.00")},
	}, nil).Once()

	inv := &lowStockInventory{items: []*models.InventoryItem{{}, {}}}
	svc := NewService(repo, inv, newCache(t), time.Minute, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC) }

	summary, err := svc.SalesSummary(ctx, tenantID, from, to, 0)
	require.NoError(t, err)
	assert.Equal(t, tenantID, summary.TenantID)
	assert.Equal(t, "33.33", summary.AverageOrderValue.StringFixed(2))
	assert.Equal(t, 2, summary.LowStockItems)
	require.Len(t, summary.TopItems, 1)
	assert.Equal(t, "Masala Dosa", summary.TopItems[0].Name)

	again, err := svc.SalesSummary(ctx, tenantID, from, to, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, again.OrderCount)
	assert.Equal(t, 1, inv.calls)
	repo.AssertExpectations(t)
}

func TestSalesSummary_NoOrders(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	repo := new(MockSalesRepository)
	repo.On("Summary", ctx, tenantID, from, to).Return(&models.SalesSummary{}, nil)
	repo.On("TopItems", ctx, tenantID, from, to, 3).Return(nil, nil)

	svc := NewService(repo, &lowStockInventory{}, nil, 0, zap.NewNop())
	summary, err := svc.SalesSummary(ctx, tenantID, from, to, 3)
	require.NoError(t, err)
	assert.True(t, summary.AverageOrderValue.IsZero())
	assert.Equal(t, 0, summary.LowStockItems)
}

func TestSalesSummary_Errors(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	svc := NewService(new(MockSalesRepository), &lowStockInventory{}, nil, 0, zap.NewNop())
	_, err := svc.SalesSummary(ctx, tenantID, from, from, 0)
	require.Error(t, err)

	to := from.AddDate(0, 0, 1)
	repo := new(MockSalesRepository)
	repo.On("Summary", ctx, tenantID, from, to).Return(&models.SalesSummary{OrderCount: 1}, nil)
	repo.On("TopItems", ctx, tenantID, from, to, defaultTopItems).Return([]models.ItemSales{}, nil)
	inv := &lowStockInventory{err: errors.New("db down")}

	svc = NewService(repo, inv, nil, 0, zap.NewNop())
	_, err = svc.SalesSummary(ctx, tenantID, from, to, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
