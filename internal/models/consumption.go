package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ConsumptionStatus string

const (
	ConsumptionConsumed                 ConsumptionStatus = "CONSUMED"
	ConsumptionSkippedMissingItem       ConsumptionStatus = "SKIPPED_MISSING_ITEM"
	ConsumptionSkippedInsufficientStock ConsumptionStatus = "SKIPPED_INSUFFICIENT_STOCK"
	ConsumptionFailed                   ConsumptionStatus = "FAILED"
)

// ConsumptionOutcome records what happened to one recipe ingredient when an
// order line was deducted from inventory. Anything other than CONSUMED left
// the item's stock untouched.
type ConsumptionOutcome struct {
	MenuItemID      uuid.UUID             `json:"menu_item_id"`
	RecipeID        uuid.UUID             `json:"recipe_id"`
	RecipeName      string                `json:"recipe_name"`
	InventoryItemID uuid.UUID             `json:"inventory_item_id"`
	Required        decimal.Decimal       `json:"required"`
	Unit            string                `json:"unit"`
	Status          ConsumptionStatus     `json:"status"`
	Transaction     *InventoryTransaction `json:"transaction,omitempty"`
	Error           string                `json:"error,omitempty"`
}

// Skipped reports whether the ingredient was not deducted.
func (o ConsumptionOutcome) Skipped() bool {
	switch o.Status {
	case ConsumptionConsumed:
		return false
	case ConsumptionSkippedMissingItem, ConsumptionSkippedInsufficientStock, ConsumptionFailed:
		return true
	}
	return true
}
