package repositories

import (
	"context"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, limit, offset int) ([]*models.Restaurant, error)
}

type restaurantRepo struct {
	db database.DB
}

func NewRestaurantRepo(db database.DB) RestaurantRepository {
	return &restaurantRepo{db: db}
}

const restaurantColumns = `id, name, description, address, phone, email, tax_rate, service_charge_rate,
		currency_code, timezone, is_active, created_at, updated_at`

func scanRestaurant(row rowScanner) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Address, &r.Phone, &r.Email, &r.TaxRate, &r.ServiceChargeRate,
		&r.CurrencyCode, &r.Timezone, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *restaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, description, address, phone, email, tax_rate, service_charge_rate,
			currency_code, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, restaurant.ID, restaurant.Name, restaurant.Description, restaurant.Address,
		restaurant.Phone, restaurant.Email, restaurant.TaxRate, restaurant.ServiceChargeRate,
		restaurant.CurrencyCode, restaurant.Timezone)
	return translateErr("restaurant", err)
}

func (r *restaurantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE id = $1 AND is_active = TRUE
	`
	restaurant, err := scanRestaurant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr("restaurant", err)
	}
	return restaurant, nil
}

func (r *restaurantRepo) Update(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $1, description = $2, address = $3, phone = $4, email = $5, tax_rate = $6,
			service_charge_rate = $7, currency_code = $8, timezone = $9, updated_at = NOW()
		WHERE id = $10 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, restaurant.Name, restaurant.Description, restaurant.Address, restaurant.Phone,
		restaurant.Email, restaurant.TaxRate, restaurant.ServiceChargeRate, restaurant.CurrencyCode,
		restaurant.Timezone, restaurant.ID)
	if err != nil {
		return translateErr("restaurant", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("restaurant", errNoRows)
	}
	return nil
}

func (r *restaurantRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE restaurants SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("restaurant", errNoRows)
	}
	return nil
}

func (r *restaurantRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE is_active = TRUE
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}
