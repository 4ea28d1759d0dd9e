package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type OrderRepository interface {
	// Create stores the order header and its lines in one transaction.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderStatus) error
	UpdatePayment(ctx context.Context, tenantID, id uuid.UUID, status models.PaymentStatus, method *string) error
}

type orderRepo struct {
	db database.DB
}

func NewOrderRepo(db database.DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, tenant_id, order_number, order_type, status, table_number, customer_name, customer_phone,
		subtotal, tax_amount, service_charge, discount_amount, total_amount, payment_method, payment_status, notes,
		created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(&o.ID, &o.TenantID, &o.OrderNumber, &o.OrderType, &o.Status, &o.TableNumber, &o.CustomerName,
		&o.CustomerPhone, &o.Subtotal, &o.TaxAmount, &o.ServiceCharge, &o.DiscountAmount, &o.TotalAmount,
		&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, tenant_id, order_number, order_type, status, table_number, customer_name,
			customer_phone, subtotal, tax_amount, service_charge, discount_amount, total_amount, payment_method,
			payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
	`
	_, err = tx.Exec(ctx, query, order.ID, order.TenantID, order.OrderNumber, order.OrderType, order.Status,
		order.TableNumber, order.CustomerName, order.CustomerPhone, order.Subtotal, order.TaxAmount,
		order.ServiceCharge, order.DiscountAmount, order.TotalAmount, order.PaymentMethod, order.PaymentStatus,
		order.Notes, order.CreatedAt)
	if err != nil {
		return translateErr("order", err)
	}

	if err := insertOrderItems(ctx, tx, order.Items); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, tenantID, query, tenantID, id)
}

func (r *orderRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND order_number = $2`
	return r.getOne(ctx, tenantID, query, tenantID, orderNumber)
}

func (r *orderRepo) getOne(ctx context.Context, tenantID uuid.UUID, query string, args ...interface{}) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateErr("order", err)
	}
	items, err := listOrderItems(ctx, r.db, tenantID, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// List returns order headers newest first, optionally narrowed to one status.
func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("order", errNoRows)
	}
	return nil
}

func (r *orderRepo) UpdatePayment(ctx context.Context, tenantID, id uuid.UUID, status models.PaymentStatus, method *string) error {
	query := `
		UPDATE orders
		SET payment_status = $1, payment_method = COALESCE($2, payment_method), updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, method, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("order", errNoRows)
	}
	return nil
}
