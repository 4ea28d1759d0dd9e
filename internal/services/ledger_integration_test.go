package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"checky/internal/common"
	"checky/internal/metrics"
	"checky/internal/models"
	"checky/internal/repositories"
	"checky/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLedgerConcurrentStockOut_Postgres(t *testing.T) {
	pool := testhelpers.SetupTestDB(t)
	restaurant := testhelpers.SetupTestRestaurant(t, pool)
	flour := testhelpers.SetupTestInventoryItem(t, pool, restaurant.ID, "FLOUR", decimal.NewFromInt(10))

	ledger := NewInventoryLedger(repositories.NewInventoryTransactionRepo(pool), NewNumberGenerator(), metrics.New("checky"), zap.NewNop())
	ctx := context.Background()

	const workers = 15
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
		unexpected   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.StockOut(ctx, restaurant.ID, flour.ID, decimal.NewFromInt(1), models.TransactionMetadata{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, common.ErrInsufficientStock):
				insufficient++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, workers-10, insufficient)

	items := repositories.NewInventoryRepo(pool)
	after, err := items.GetByID(ctx, restaurant.ID, flour.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentStock.IsZero(), "stock is %s", after.CurrentStock)

	txns, err := ledger.ListTransactions(ctx, restaurant.ID, &models.InventoryTransactionFilter{InventoryItemID: &flour.ID, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, txns, 10)
}

func TestOpenItemFailedEntryLeavesNoItem_Postgres(t *testing.T) {
	pool := testhelpers.SetupTestDB(t)
	restaurant := testhelpers.SetupTestRestaurant(t, pool)
	ctx := context.Background()

	txRepo := repositories.NewInventoryTransactionRepo(pool)
	item := &models.InventoryItem{
		ID:       uuid.New(),
		TenantID: restaurant.ID,
		ItemCode: "BASIL",
		Name:     "Basil",
		Category: models.InventoryCategoryIngredient,
		Unit:     "g",
		IsActive: true,
	}
	_, err := txRepo.Open(ctx, item, func(*models.InventoryItem) (*models.InventoryTransaction, error) {
		return nil, errors.New("entry rejected")
	})
	require.Error(t, err)

	_, err = repositories.NewInventoryRepo(pool).GetByCode(ctx, restaurant.ID, "BASIL")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
