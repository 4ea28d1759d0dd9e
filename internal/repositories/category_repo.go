package repositories

import (
	"context"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.MenuCategory) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error)
	Update(ctx context.Context, category *models.MenuCategory) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error)
}

type categoryRepo struct {
	db database.DB
}

func NewCategoryRepo(db database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.MenuCategory) error {
	query := `
		INSERT INTO menu_categories (id, tenant_id, name, description, display_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.TenantID, category.Name, category.Description, category.DisplayOrder)
	return translateErr("menu category", err)
}

func (r *categoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error) {
	category := &models.MenuCategory{}
	query := `
		SELECT id, tenant_id, name, description, display_order, is_active, created_at, updated_at
		FROM menu_categories
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&category.ID, &category.TenantID, &category.Name,
		&category.Description, &category.DisplayOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, translateErr("menu category", err)
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.MenuCategory) error {
	query := `
		UPDATE menu_categories
		SET name = $1, description = $2, display_order = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, category.Name, category.Description, category.DisplayOrder, category.TenantID, category.ID)
	if err != nil {
		return translateErr("menu category", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("menu category", errNoRows)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE menu_categories SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("menu category", errNoRows)
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error) {
	query := `
		SELECT id, tenant_id, name, description, display_order, is_active, created_at, updated_at
		FROM menu_categories
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY display_order, name
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.MenuCategory
	for rows.Next() {
		category := &models.MenuCategory{}
		if err := rows.Scan(&category.ID, &category.TenantID, &category.Name, &category.Description,
			&category.DisplayOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
