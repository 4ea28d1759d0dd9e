package models

import (
	"fmt"
	"strings"
	"time"

	"checky/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryCategory string

const (
	InventoryCategoryIngredient     InventoryCategory = "INGREDIENT"
	InventoryCategoryPackaging      InventoryCategory = "PACKAGING"
	InventoryCategoryEquipment      InventoryCategory = "EQUIPMENT"
	InventoryCategoryCleaningSupply InventoryCategory = "CLEANING_SUPPLY"
	InventoryCategoryOfficeSupply   InventoryCategory = "OFFICE_SUPPLY"
	InventoryCategoryOther          InventoryCategory = "OTHER"
)

// InventoryCategories lists every category in declaration order.
func InventoryCategories() []InventoryCategory {
	return []InventoryCategory{
		InventoryCategoryIngredient,
		InventoryCategoryPackaging,
		InventoryCategoryEquipment,
		InventoryCategoryCleaningSupply,
		InventoryCategoryOfficeSupply,
		InventoryCategoryOther,
	}
}

func ParseInventoryCategory(s string) (InventoryCategory, error) {
	c := InventoryCategory(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case InventoryCategoryIngredient, InventoryCategoryPackaging, InventoryCategoryEquipment,
		InventoryCategoryCleaningSupply, InventoryCategoryOfficeSupply, InventoryCategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("%w: inventory category %q", common.ErrInvalidEnumValue, s)
}

type InventoryItem struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	TenantID          uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	ItemCode          string            `json:"item_code" db:"item_code"`
	Name              string            `json:"name" db:"name"`
	Description       *string           `json:"description" db:"description"`
	Category          InventoryCategory `json:"category" db:"category"`
	Unit              string            `json:"unit" db:"unit"`
	CurrentStock      decimal.Decimal   `json:"current_stock" db:"current_stock"`
	MinimumStock      decimal.Decimal   `json:"minimum_stock" db:"minimum_stock"`
	ReorderLevel      decimal.Decimal   `json:"reorder_level" db:"reorder_level"`
	ReorderQuantity   decimal.Decimal   `json:"reorder_quantity" db:"reorder_quantity"`
	UnitCost          decimal.Decimal   `json:"unit_cost" db:"unit_cost"`
	SupplierName      *string           `json:"supplier_name" db:"supplier_name"`
	SupplierContact   *string           `json:"supplier_contact" db:"supplier_contact"`
	LastRestockedDate *time.Time        `json:"last_restocked_date" db:"last_restocked_date"`
	ExpiryDate        *time.Time        `json:"expiry_date" db:"expiry_date"`
	IsPerishable      bool              `json:"is_perishable" db:"is_perishable"`
	ShelfLifeDays     *int              `json:"shelf_life_days" db:"shelf_life_days"`
	Location          *string           `json:"location" db:"location"`
	Notes             *string           `json:"notes" db:"notes"`
	IsActive          bool              `json:"is_active" db:"is_active"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// InventoryItemFilter holds list criteria for inventory items
type InventoryItemFilter struct {
	Category       *InventoryCategory `json:"category,omitempty"`
	Query          string             `json:"query,omitempty"`           // name search
	LowStock       bool               `json:"low_stock,omitempty"`       // current_stock <= reorder_level
	OutOfStock     bool               `json:"out_of_stock,omitempty"`    // current_stock <= minimum_stock
	ExpiringBefore *time.Time         `json:"expiring_before,omitempty"` // perishable items only
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}

type InventoryTransactionType string

const (
	TransactionStockIn    InventoryTransactionType = "STOCK_IN"
	TransactionStockOut   InventoryTransactionType = "STOCK_OUT"
	TransactionAdjustment InventoryTransactionType = "ADJUSTMENT"
	TransactionTransfer   InventoryTransactionType = "TRANSFER"
	TransactionReturn     InventoryTransactionType = "RETURN"
	TransactionDamaged    InventoryTransactionType = "DAMAGED"
	TransactionExpired    InventoryTransactionType = "EXPIRED"
)

func InventoryTransactionTypes() []InventoryTransactionType {
	return []InventoryTransactionType{
		TransactionStockIn,
		TransactionStockOut,
		TransactionAdjustment,
		TransactionTransfer,
		TransactionReturn,
		TransactionDamaged,
		TransactionExpired,
	}
}

func ParseInventoryTransactionType(s string) (InventoryTransactionType, error) {
	t := InventoryTransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TransactionStockIn, TransactionStockOut, TransactionAdjustment, TransactionTransfer,
		TransactionReturn, TransactionDamaged, TransactionExpired:
		return t, nil
	}
	return "", fmt.Errorf("%w: transaction type %q", common.ErrInvalidEnumValue, s)
}

// InventoryTransaction is an immutable ledger entry. Only the approval
// fields change after insert.
type InventoryTransaction struct {
	ID                uuid.UUID                `json:"id" db:"id"`
	TenantID          uuid.UUID                `json:"tenant_id" db:"tenant_id"`
	TransactionNumber string                   `json:"transaction_number" db:"transaction_number"`
	InventoryItemID   uuid.UUID                `json:"inventory_item_id" db:"inventory_item_id"`
	Type              InventoryTransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity          decimal.Decimal          `json:"quantity" db:"quantity"`
	UnitCost          *decimal.Decimal         `json:"unit_cost" db:"unit_cost"`
	TotalCost         *decimal.Decimal         `json:"total_cost" db:"total_cost"`
	PreviousStock     decimal.Decimal          `json:"previous_stock" db:"previous_stock"`
	NewStock          decimal.Decimal          `json:"new_stock" db:"new_stock"`
	ReferenceNumber   *string                  `json:"reference_number" db:"reference_number"`
	ReferenceType     *string                  `json:"reference_type" db:"reference_type"`
	Notes             *string                  `json:"notes" db:"notes"`
	TransactionDate   time.Time                `json:"transaction_date" db:"transaction_date"`
	ExpiryDate        *time.Time               `json:"expiry_date" db:"expiry_date"`
	BatchNumber       *string                  `json:"batch_number" db:"batch_number"`
	LocationFrom      *string                  `json:"location_from" db:"location_from"`
	LocationTo        *string                  `json:"location_to" db:"location_to"`
	IsApproved        bool                     `json:"is_approved" db:"is_approved"`
	ApprovedBy        *string                  `json:"approved_by" db:"approved_by"`
	ApprovedDate      *time.Time               `json:"approved_date" db:"approved_date"`
}

// TransactionMetadata carries the optional ledger fields of a stock change.
type TransactionMetadata struct {
	NumberPrefix    string // INV when empty
	UnitCost        *decimal.Decimal
	ReferenceNumber *string
	ReferenceType   *string
	Notes           *string
	ExpiryDate      *time.Time
	BatchNumber     *string
	LocationFrom    *string
	LocationTo      *string
}

// InventoryTransactionFilter holds ledger query criteria
type InventoryTransactionFilter struct {
	InventoryItemID *uuid.UUID                `json:"inventory_item_id,omitempty"`
	Type            *InventoryTransactionType `json:"transaction_type,omitempty"`
	From            *time.Time                `json:"from,omitempty"`
	To              *time.Time                `json:"to,omitempty"`
	PendingOnly     bool                      `json:"pending_only,omitempty"`
	Limit           int                       `json:"limit,omitempty"`
	Offset          int                       `json:"offset,omitempty"`
}
