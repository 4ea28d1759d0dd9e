package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type TableRepository interface {
	Create(ctx context.Context, table *models.RestaurantTable) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestaurantTable, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, tableNumber string) (*models.RestaurantTable, error)
	Update(ctx context.Context, table *models.RestaurantTable) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.TableStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.TableFilter) ([]*models.RestaurantTable, error)
}

type tableRepo struct {
	db database.DB
}

func NewTableRepo(db database.DB) TableRepository {
	return &tableRepo{db: db}
}

const tableColumns = `id, tenant_id, table_number, table_name, capacity, status, table_type, location,
		is_reservable, notes, is_active, created_at, updated_at`

func scanTable(row rowScanner) (*models.RestaurantTable, error) {
	t := &models.RestaurantTable{}
	if err := row.Scan(&t.ID, &t.TenantID, &t.TableNumber, &t.TableName, &t.Capacity, &t.Status, &t.Type,
		&t.Location, &t.IsReservable, &t.Notes, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tableRepo) Create(ctx context.Context, table *models.RestaurantTable) error {
	query := `
		INSERT INTO restaurant_tables (id, tenant_id, table_number, table_name, capacity, status, table_type, location,
			is_reservable, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, table.ID, table.TenantID, table.TableNumber, table.TableName, table.Capacity,
		table.Status, table.Type, table.Location, table.IsReservable, table.Notes)
	return translateErr("table", err)
}

func (r *tableRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestaurantTable, error) {
	query := `SELECT ` + tableColumns + `
		FROM restaurant_tables
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
	`
	table, err := scanTable(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("table", err)
	}
	return table, nil
}

func (r *tableRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, tableNumber string) (*models.RestaurantTable, error) {
	query := `SELECT ` + tableColumns + `
		FROM restaurant_tables
		WHERE tenant_id = $1 AND table_number = $2 AND is_active = TRUE
	`
	table, err := scanTable(r.db.QueryRow(ctx, query, tenantID, tableNumber))
	if err != nil {
		return nil, translateErr("table", err)
	}
	return table, nil
}

func (r *tableRepo) Update(ctx context.Context, table *models.RestaurantTable) error {
	query := `
		UPDATE restaurant_tables
		SET table_number = $1, table_name = $2, capacity = $3, status = $4, table_type = $5, location = $6,
			is_reservable = $7, notes = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, table.TableNumber, table.TableName, table.Capacity, table.Status, table.Type,
		table.Location, table.IsReservable, table.Notes, table.TenantID, table.ID)
	if err != nil {
		return translateErr("table", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("table", errNoRows)
	}
	return nil
}

func (r *tableRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.TableStatus) error {
	query := `UPDATE restaurant_tables SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("table", errNoRows)
	}
	return nil
}

func (r *tableRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE restaurant_tables SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("table", errNoRows)
	}
	return nil
}

func (r *tableRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.TableFilter) ([]*models.RestaurantTable, error) {
	if filter == nil {
		filter = &models.TableFilter{}
	}

	query := `SELECT ` + tableColumns + `
		FROM restaurant_tables
		WHERE tenant_id = $1 AND is_active = TRUE`
	args := []interface{}{tenantID}
	n := 1

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, *filter.Status)
	}
	if filter.Type != nil {
		n++
		query += fmt.Sprintf(` AND table_type = $%d`, n)
		args = append(args, *filter.Type)
	}
	if filter.ReservableOnly {
		query += ` AND is_reservable = TRUE`
	}
	if filter.MinCapacity != nil {
		n++
		query += fmt.Sprintf(` AND capacity >= $%d`, n)
		args = append(args, *filter.MinCapacity)
	}
	query += ` ORDER BY table_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.RestaurantTable
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}
