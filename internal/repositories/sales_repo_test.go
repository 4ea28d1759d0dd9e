package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesSummary(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`FROM orders\s+WHERE tenant_id = \$1 AND created_at >= \$2 AND created_at < \$3`).
		WithArgs(tenantID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"orders", "cancelled", "gross", "tax", "svc", "disc", "total", "paid"}).
			AddRow(4, 1, decimal.NewFromInt(400), decimal.NewFromInt(34), decimal.NewFromInt(40),
				decimal.NewFromInt(10), decimal.NewFromInt(464), decimal.NewFromInt(350)))

	summary, err := NewSalesRepo(mock).Summary(context.Background(), tenantID, from, to)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.OrderCount)
	assert.Equal(t, 1, summary.CancelledCount)
	assert.True(t, decimal.NewFromInt(464).Equal(summary.Revenue))
	assert.True(t, decimal.NewFromInt(350).Equal(summary.PaidRevenue))
	assert.Equal(t, from, summary.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesTopItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()
	pizza, pasta := uuid.New(), uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`GROUP BY oi.menu_item_id, mi.name\s+ORDER BY SUM\(oi.quantity\) DESC, mi.name\s+LIMIT \$4`).
		WithArgs(tenantID, from, to, 5).
		WillReturnRows(pgxmock.NewRows([]string{"menu_item_id", "name", "quantity", "revenue"}).
			AddRow(pizza, "Margherita", 12, decimal.NewFromInt(144)).
			AddRow(pasta, "Carbonara", 7, decimal.NewFromInt(98)))

	items, err := NewSalesRepo(mock).TopItems(context.Background(), tenantID, from, to, 5)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Margherita", items[0].Name)
	assert.Equal(t, 12, items[0].Quantity)
	assert.Equal(t, pasta, items[1].MenuItemID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
