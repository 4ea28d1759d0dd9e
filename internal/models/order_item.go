package models

import (
	"fmt"
	"strings"

	"checky/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemStatus string

const (
	OrderItemPending   OrderItemStatus = "PENDING"
	OrderItemPreparing OrderItemStatus = "PREPARING"
	OrderItemReady     OrderItemStatus = "READY"
	OrderItemServed    OrderItemStatus = "SERVED"
	OrderItemCancelled OrderItemStatus = "CANCELLED"
)

func ParseOrderItemStatus(s string) (OrderItemStatus, error) {
	st := OrderItemStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case OrderItemPending, OrderItemPreparing, OrderItemReady, OrderItemServed, OrderItemCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: order item status %q", common.ErrInvalidEnumValue, s)
}

type OrderItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	TenantID   uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	OrderID    uuid.UUID       `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID       `json:"menu_item_id" db:"menu_item_id"`
	LineNumber int             `json:"line_number" db:"line_number"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	Notes      *string         `json:"notes" db:"notes"`
	ItemStatus OrderItemStatus `json:"item_status" db:"item_status"`
}
