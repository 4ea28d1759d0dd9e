package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates a restaurant's orders over [From, To).
// Cancelled orders are counted but excluded from every amount.
type SalesSummary struct {
	TenantID          uuid.UUID       `json:"tenant_id"`
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	OrderCount        int             `json:"order_count"`
	CancelledCount    int             `json:"cancelled_count"`
	GrossSales        decimal.Decimal `json:"gross_sales"`
	TaxCollected      decimal.Decimal `json:"tax_collected"`
	ServiceCharges    decimal.Decimal `json:"service_charges"`
	Discounts         decimal.Decimal `json:"discounts"`
	Revenue           decimal.Decimal `json:"revenue"`
	PaidRevenue       decimal.Decimal `json:"paid_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TopItems          []ItemSales     `json:"top_items"`
	LowStockItems     int             `json:"low_stock_items"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

type ItemSales struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}
