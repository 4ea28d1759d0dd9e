package repositories

import (
	"context"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.OrderItem, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderItemStatus) error
	ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.OrderItem, error)
}

type orderItemRepo struct {
	db database.DB
}

func NewOrderItemRepo(db database.DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

const orderItemColumns = `id, tenant_id, order_id, menu_item_id, line_number, quantity, unit_price, total_price, notes, item_status`

func scanOrderItem(row rowScanner) (models.OrderItem, error) {
	var item models.OrderItem
	err := row.Scan(&item.ID, &item.TenantID, &item.OrderID, &item.MenuItemID, &item.LineNumber, &item.Quantity,
		&item.UnitPrice, &item.TotalPrice, &item.Notes, &item.ItemStatus)
	return item, err
}

func (r *orderItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE tenant_id = $1 AND id = $2`
	item, err := scanOrderItem(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("order item", err)
	}
	return &item, nil
}

func (r *orderItemRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderItemStatus) error {
	query := `UPDATE order_items SET item_status = $1 WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("order item", errNoRows)
	}
	return nil
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.OrderItem, error) {
	return listOrderItems(ctx, r.db, tenantID, orderID)
}

func insertOrderItems(ctx context.Context, db database.DB, items []models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, tenant_id, order_id, menu_item_id, line_number, quantity, unit_price, total_price,
			notes, item_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, item := range items {
		if _, err := db.Exec(ctx, query, item.ID, item.TenantID, item.OrderID, item.MenuItemID, item.LineNumber,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.Notes, item.ItemStatus); err != nil {
			return translateErr("order item", err)
		}
	}
	return nil
}

func listOrderItems(ctx context.Context, db database.DB, tenantID, orderID uuid.UUID) ([]models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + `
		FROM order_items
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY line_number
	`
	rows, err := db.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
