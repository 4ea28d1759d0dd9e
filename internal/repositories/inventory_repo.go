package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryItemFilter) ([]*models.InventoryItem, error)
}

type inventoryRepo struct {
	db database.DB
}

func NewInventoryRepo(db database.DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventoryColumns = `id, tenant_id, item_code, name, description, category, unit, current_stock, minimum_stock,
		reorder_level, reorder_quantity, unit_cost, supplier_name, supplier_contact, last_restocked_date, expiry_date,
		is_perishable, shelf_life_days, location, notes, is_active, created_at, updated_at`

func scanInventoryItem(row rowScanner) (*models.InventoryItem, error) {
	i := &models.InventoryItem{}
	err := row.Scan(&i.ID, &i.TenantID, &i.ItemCode, &i.Name, &i.Description, &i.Category, &i.Unit,
		&i.CurrentStock, &i.MinimumStock, &i.ReorderLevel, &i.ReorderQuantity, &i.UnitCost,
		&i.SupplierName, &i.SupplierContact, &i.LastRestockedDate, &i.ExpiryDate,
		&i.IsPerishable, &i.ShelfLifeDays, &i.Location, &i.Notes, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts an item. current_stock is written once here and afterwards
// only moves through the ledger.
func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	return insertInventoryItem(ctx, r.db, item)
}

func insertInventoryItem(ctx context.Context, db database.DB, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, tenant_id, item_code, name, description, category, unit, current_stock,
			minimum_stock, reorder_level, reorder_quantity, unit_cost, supplier_name, supplier_contact, expiry_date,
			is_perishable, shelf_life_days, location, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, TRUE, NOW(), NOW())
	`
	_, err := db.Exec(ctx, query, item.ID, item.TenantID, item.ItemCode, item.Name, item.Description, item.Category,
		item.Unit, item.CurrentStock, item.MinimumStock, item.ReorderLevel, item.ReorderQuantity, item.UnitCost,
		item.SupplierName, item.SupplierContact, item.ExpiryDate, item.IsPerishable, item.ShelfLifeDays,
		item.Location, item.Notes)
	return translateErr("inventory item", err)
}

func (r *inventoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
	`
	item, err := scanInventoryItem(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("inventory item", err)
	}
	return item, nil
}

func (r *inventoryRepo) GetByCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND item_code = $2 AND is_active = TRUE
	`
	item, err := scanInventoryItem(r.db.QueryRow(ctx, query, tenantID, itemCode))
	if err != nil {
		return nil, translateErr("inventory item", err)
	}
	return item, nil
}

// Update changes descriptive fields and thresholds. Stock is not touched.
func (r *inventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, description = $2, category = $3, unit = $4, minimum_stock = $5, reorder_level = $6,
			reorder_quantity = $7, unit_cost = $8, supplier_name = $9, supplier_contact = $10, is_perishable = $11,
			shelf_life_days = $12, location = $13, notes = $14, updated_at = NOW()
		WHERE tenant_id = $15 AND id = $16 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Category, item.Unit, item.MinimumStock,
		item.ReorderLevel, item.ReorderQuantity, item.UnitCost, item.SupplierName, item.SupplierContact,
		item.IsPerishable, item.ShelfLifeDays, item.Location, item.Notes, item.TenantID, item.ID)
	if err != nil {
		return translateErr("inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("inventory item", errNoRows)
	}
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE inventory_items SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("inventory item", errNoRows)
	}
	return nil
}

// List returns active items matching the filter, ordered by name.
func (r *inventoryRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryItemFilter) ([]*models.InventoryItem, error) {
	if filter == nil {
		filter = &models.InventoryItemFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 100
	}

	query := `SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND is_active = TRUE`
	args := []interface{}{tenantID}
	n := 1

	if filter.Category != nil {
		n++
		query += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, *filter.Category)
	}
	if filter.Query != "" {
		n++
		query += fmt.Sprintf(` AND (name ILIKE $%d OR item_code ILIKE $%d)`, n, n)
		args = append(args, likePattern(filter.Query))
	}
	if filter.LowStock {
		query += ` AND current_stock <= reorder_level`
	}
	if filter.OutOfStock {
		query += ` AND current_stock <= minimum_stock`
	}
	if filter.ExpiringBefore != nil {
		n++
		query += fmt.Sprintf(` AND is_perishable = TRUE AND expiry_date IS NOT NULL AND expiry_date <= $%d`, n)
		args = append(args, *filter.ExpiringBefore)
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
