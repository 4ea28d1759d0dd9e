package models

import (
	"fmt"
	"strings"
	"time"

	"checky/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusServed,
		OrderStatusCancelled,
	}
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusServed, OrderStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: order status %q", common.ErrInvalidEnumValue, s)
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return st, nil
	}
	return "", fmt.Errorf("%w: payment status %q", common.ErrInvalidEnumValue, s)
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeaway OrderType = "TAKEAWAY"
	OrderTypeDelivery OrderType = "DELIVERY"
)

func OrderTypes() []OrderType {
	return []OrderType{OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery}
}

func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return t, nil
	}
	return "", fmt.Errorf("%w: order type %q", common.ErrInvalidEnumValue, s)
}

// Order totals are derived by the order service and never set by callers.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TenantID       uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	OrderNumber    string          `json:"order_number" db:"order_number"`
	OrderType      OrderType       `json:"order_type" db:"order_type"`
	Status         OrderStatus     `json:"status" db:"status"`
	TableNumber    *string         `json:"table_number" db:"table_number"`
	CustomerName   *string         `json:"customer_name" db:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone" db:"customer_phone"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	ServiceCharge  decimal.Decimal `json:"service_charge" db:"service_charge"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod  *string         `json:"payment_method" db:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status" db:"payment_status"`
	Notes          *string         `json:"notes" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Items          []OrderItem     `json:"items" db:"-"`

	// InventoryConsumption is only populated on the create response.
	InventoryConsumption []ConsumptionOutcome `json:"inventory_consumption,omitempty" db:"-"`
}

// OrderDraft is the caller-supplied part of a new order.
type OrderDraft struct {
	OrderType      OrderType
	TableNumber    *string
	CustomerName   *string
	CustomerPhone  *string
	DiscountAmount decimal.Decimal
	PaymentMethod  *string
	Notes          *string
	Items          []OrderLineDraft
}

// OrderLineDraft is one requested line. A nil UnitPrice means the current
// menu price is used; a supplied price is trusted as-is.
type OrderLineDraft struct {
	MenuItemID uuid.UUID
	Quantity   int
	UnitPrice  *decimal.Decimal
	Notes      *string
}
