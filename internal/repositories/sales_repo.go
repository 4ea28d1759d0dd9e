package repositories

import (
	"context"
	"time"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

// SalesRepository runs the read-only aggregates behind the sales report.
type SalesRepository interface {
	Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.SalesSummary, error)
	TopItems(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]models.ItemSales, error)
}

type salesRepo struct {
	db database.DB
}

func NewSalesRepo(db database.DB) SalesRepository {
	return &salesRepo{db: db}
}

func (r *salesRepo) Summary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.SalesSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'CANCELLED'),
			COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			COALESCE(SUM(subtotal) FILTER (WHERE status <> 'CANCELLED'), 0),
			COALESCE(SUM(tax_amount) FILTER (WHERE status <> 'CANCELLED'), 0),
			COALESCE(SUM(service_charge) FILTER (WHERE status <> 'CANCELLED'), 0),
			COALESCE(SUM(discount_amount) FILTER (WHERE status <> 'CANCELLED'), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE status <> 'CANCELLED'), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE status <> 'CANCELLED' AND payment_status = 'PAID'), 0)
		FROM orders
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
	`
	s := &models.SalesSummary{TenantID: tenantID, From: from, To: to}
	err := r.db.QueryRow(ctx, query, tenantID, from, to).Scan(&s.OrderCount, &s.CancelledCount,
		&s.GrossSales, &s.TaxCollected, &s.ServiceCharges, &s.Discounts, &s.Revenue, &s.PaidRevenue)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *salesRepo) TopItems(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit int) ([]models.ItemSales, error) {
	query := `
		SELECT oi.menu_item_id, mi.name, SUM(oi.quantity), SUM(oi.total_price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id AND o.tenant_id = oi.tenant_id
		JOIN menu_items mi ON mi.id = oi.menu_item_id AND mi.tenant_id = oi.tenant_id
		WHERE oi.tenant_id = $1 AND o.created_at >= $2 AND o.created_at < $3 AND o.status <> 'CANCELLED'
		GROUP BY oi.menu_item_id, mi.name
		ORDER BY SUM(oi.quantity) DESC, mi.name
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ItemSales
	for rows.Next() {
		var item models.ItemSales
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &item.Revenue); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
