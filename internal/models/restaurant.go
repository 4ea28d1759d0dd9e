package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Restaurant is the tenant. Its ID is the tenant_id on every other row.
type Restaurant struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	Description       *string         `json:"description" db:"description"`
	Address           *string         `json:"address" db:"address"`
	Phone             *string         `json:"phone" db:"phone"`
	Email             *string         `json:"email" db:"email"`
	TaxRate           decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate" db:"service_charge_rate"`
	CurrencyCode      string          `json:"currency_code" db:"currency_code"`
	Timezone          string          `json:"timezone" db:"timezone"`
	IsActive          bool            `json:"is_active" db:"is_active"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
