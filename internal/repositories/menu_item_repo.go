package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	SetImageKey(ctx context.Context, tenantID, id uuid.UUID, imageKey *string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error)
}

type menuItemRepo struct {
	db database.DB
}

func NewMenuItemRepo(db database.DB) MenuItemRepository {
	return &menuItemRepo{db: db}
}

const menuItemColumns = `id, tenant_id, category_id, name, description, price, image_key, is_vegetarian, is_gluten_free,
		is_spicy, preparation_time, is_available, display_order, is_active, created_at, updated_at`

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	if err := row.Scan(&m.ID, &m.TenantID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.ImageKey,
		&m.IsVegetarian, &m.IsGlutenFree, &m.IsSpicy, &m.PreparationTime, &m.IsAvailable, &m.DisplayOrder,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, tenant_id, category_id, name, description, price, is_vegetarian, is_gluten_free,
			is_spicy, preparation_time, is_available, display_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.CategoryID, item.Name, item.Description, item.Price,
		item.IsVegetarian, item.IsGlutenFree, item.IsSpicy, item.PreparationTime, item.IsAvailable, item.DisplayOrder)
	return translateErr("menu item", err)
}

func (r *menuItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
	`
	item, err := scanMenuItem(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("menu item", err)
	}
	return item, nil
}

func (r *menuItemRepo) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET category_id = $1, name = $2, description = $3, price = $4, is_vegetarian = $5, is_gluten_free = $6,
			is_spicy = $7, preparation_time = $8, is_available = $9, display_order = $10, updated_at = NOW()
		WHERE tenant_id = $11 AND id = $12 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, item.CategoryID, item.Name, item.Description, item.Price, item.IsVegetarian,
		item.IsGlutenFree, item.IsSpicy, item.PreparationTime, item.IsAvailable, item.DisplayOrder, item.TenantID, item.ID)
	if err != nil {
		return translateErr("menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("menu item", errNoRows)
	}
	return nil
}

func (r *menuItemRepo) SetImageKey(ctx context.Context, tenantID, id uuid.UUID, imageKey *string) error {
	query := `UPDATE menu_items SET image_key = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, imageKey, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("menu item", errNoRows)
	}
	return nil
}

func (r *menuItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE menu_items SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("menu item", errNoRows)
	}
	return nil
}

// List applies the filter with positional arguments built the same way for
// every optional condition.
func (r *menuItemRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
	if filter == nil {
		filter = &models.MenuItemFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	query := `SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE tenant_id = $1 AND is_active = TRUE`
	args := []interface{}{tenantID}
	n := 1

	if filter.CategoryID != nil {
		n++
		query += fmt.Sprintf(` AND category_id = $%d`, n)
		args = append(args, *filter.CategoryID)
	}
	if filter.AvailableOnly {
		query += ` AND is_available = TRUE`
	}
	if filter.Vegetarian != nil {
		n++
		query += fmt.Sprintf(` AND is_vegetarian = $%d`, n)
		args = append(args, *filter.Vegetarian)
	}
	if filter.GlutenFree != nil {
		n++
		query += fmt.Sprintf(` AND is_gluten_free = $%d`, n)
		args = append(args, *filter.GlutenFree)
	}
	if filter.Query != "" {
		n++
		query += fmt.Sprintf(` AND name ILIKE $%d`, n)
		args = append(args, likePattern(filter.Query))
	}

	query += fmt.Sprintf(` ORDER BY display_order, name LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
