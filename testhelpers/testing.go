// Package testhelpers sets up a real Postgres for integration tests. Tests
// using it are skipped unless TEST_DATABASE_URL is set.
package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// tenantTables lists tables holding tenant rows, children first.
var tenantTables = []string{
	"order_items",
	"orders",
	"recipe_instructions",
	"recipe_ingredients",
	"recipes",
	"inventory_transactions",
	"inventory_items",
	"restaurant_tables",
	"menu_items",
	"menu_categories",
	"api_keys",
}

// SetupTestDB connects to TEST_DATABASE_URL and applies migrations. The pool
// is closed when the test ends.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, dsn, database.PoolConfig{MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = database.RunMigrations(ctx, pool)
	require.NoError(t, err)
	return pool
}

// SetupTestRestaurant inserts a restaurant and removes it with every row it
// owns after the test.
func SetupTestRestaurant(t *testing.T, pool *pgxpool.Pool) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		ID:                uuid.New(),
		Name:              "Test Kitchen " + uuid.NewString()[:8],
		TaxRate:           decimal.RequireFromString("8.50"),
		ServiceChargeRate: decimal.RequireFromString("10.00"),
		CurrencyCode:      "USD",
		Timezone:          "UTC",
		IsActive:          true,
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO restaurants (id, name, tax_rate, service_charge_rate, currency_code, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, restaurant.ID, restaurant.Name, restaurant.TaxRate, restaurant.ServiceChargeRate,
		restaurant.CurrencyCode, restaurant.Timezone)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		for _, table := range tenantTables {
			if _, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1`, restaurant.ID); err != nil {
				t.Logf("cleanup %s: %v", table, err)
			}
		}
		if _, err := pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, restaurant.ID); err != nil {
			t.Logf("cleanup restaurants: %v", err)
		}
	})
	return restaurant
}

// SetupTestInventoryItem inserts an ingredient with the given stock.
func SetupTestInventoryItem(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, code string, stock decimal.Decimal) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ItemCode:     code,
		Name:         code,
		Category:     models.InventoryCategoryIngredient,
		Unit:         "kg",
		CurrentStock: stock,
		MinimumStock: decimal.NewFromInt(1),
		ReorderLevel: decimal.NewFromInt(2),
		IsActive:     true,
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO inventory_items (id, tenant_id, item_code, name, category, unit, current_stock, minimum_stock, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, item.ID, item.TenantID, item.ItemCode, item.Name, item.Category, item.Unit,
		item.CurrentStock, item.MinimumStock, item.ReorderLevel)
	require.NoError(t, err)
	return item
}
