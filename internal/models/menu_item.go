package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	CategoryID      *uuid.UUID      `json:"category_id" db:"category_id"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	ImageKey        *string         `json:"image_key" db:"image_key"`
	IsVegetarian    bool            `json:"is_vegetarian" db:"is_vegetarian"`
	IsGlutenFree    bool            `json:"is_gluten_free" db:"is_gluten_free"`
	IsSpicy         bool            `json:"is_spicy" db:"is_spicy"`
	PreparationTime *int            `json:"preparation_time" db:"preparation_time"` // minutes
	IsAvailable     bool            `json:"is_available" db:"is_available"`
	DisplayOrder    int             `json:"display_order" db:"display_order"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// MenuItemFilter holds list criteria for menu items
type MenuItemFilter struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	AvailableOnly bool       `json:"available_only,omitempty"`
	Vegetarian    *bool      `json:"vegetarian,omitempty"`
	GlutenFree    *bool      `json:"gluten_free,omitempty"`
	Query         string     `json:"query,omitempty"`
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}
