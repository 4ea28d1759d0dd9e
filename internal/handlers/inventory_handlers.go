package handlers

import (
	"net/http"
	"time"

	"checky/internal/models"
	"checky/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InventoryHandlers serves inventory items and their stock queries.
type InventoryHandlers struct {
	inventoryService services.InventoryService
	lookaheadDays    int
}

func NewInventoryHandlers(inventoryService services.InventoryService, lookaheadDays int) *InventoryHandlers {
	days := lookaheadDays
	if days <= 0 {
		days = 7
	}
	return &InventoryHandlers{inventoryService: inventoryService, lookaheadDays: days}
}

type InventoryItemRequest struct {
	ItemCode        string          `json:"item_code" validate:"required,max=50"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     *string         `json:"description"`
	Category        string          `json:"category" validate:"required"`
	Unit            string          `json:"unit" validate:"required,max=20"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	ReorderQuantity decimal.Decimal `json:"reorder_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	SupplierName    *string         `json:"supplier_name"`
	SupplierContact *string         `json:"supplier_contact"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	IsPerishable    bool            `json:"is_perishable"`
	ShelfLifeDays   *int            `json:"shelf_life_days" validate:"omitempty,gte=0"`
	Location        *string         `json:"location"`
	Notes           *string         `json:"notes"`
}

func (r *InventoryItemRequest) toModel() *models.InventoryItem {
	return &models.InventoryItem{
		ItemCode:        r.ItemCode,
		Name:            r.Name,
		Description:     r.Description,
		Category:        models.InventoryCategory(r.Category),
		Unit:            r.Unit,
		CurrentStock:    r.CurrentStock,
		MinimumStock:    r.MinimumStock,
		ReorderLevel:    r.ReorderLevel,
		ReorderQuantity: r.ReorderQuantity,
		UnitCost:        r.UnitCost,
		SupplierName:    r.SupplierName,
		SupplierContact: r.SupplierContact,
		ExpiryDate:      r.ExpiryDate,
		IsPerishable:    r.IsPerishable,
		ShelfLifeDays:   r.ShelfLifeDays,
		Location:        r.Location,
		Notes:           r.Notes,
	}
}

// List godoc
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        category      query  string  false  "Inventory category"
// @Param        q             query  string  false  "Name search"
// @Param        low_stock     query  bool    false  "At or below reorder level"
// @Param        out_of_stock  query  bool    false  "At or below minimum stock"
// @Param        limit         query  int     false  "Page size"
// @Param        offset        query  int     false  "Page offset"
// @Security     ApiKeyAuth
// @Router       /api/inventory/items [get]
func (h *InventoryHandlers) List(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.InventoryItemFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("category"); raw != "" {
		category, err := models.ParseInventoryCategory(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Category = &category
	}
	low, err := queryBool(c, "low_stock")
	if err != nil {
		return respondError(c, err)
	}
	out, err := queryBool(c, "out_of_stock")
	if err != nil {
		return respondError(c, err)
	}
	filter.LowStock = low != nil && *low
	filter.OutOfStock = out != nil && *out
	if filter.Limit, err = queryInt(c, "limit", 50); err != nil {
		return respondError(c, err)
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		return respondError(c, err)
	}

	items, err := h.inventoryService.List(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// Create godoc
// @Summary      Create an inventory item
// @Description  A positive current_stock is booked as an opening STOCK_IN transaction.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      InventoryItemRequest  true  "Item"
// @Success      201   {object}  models.InventoryItem
// @Security     ApiKeyAuth
// @Router       /api/inventory/items [post]
func (h *InventoryHandlers) Create(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req InventoryItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.inventoryService.Create(c.Request().Context(), tid, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandlers) Get(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.inventoryService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandlers) GetByCode(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.inventoryService.GetByCode(c.Request().Context(), tid, c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update replaces the descriptive fields of an item. Stock only moves through
// the ledger endpoints.
func (h *InventoryHandlers) Update(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req InventoryItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	item := req.toModel()
	item.ID = id
	updated, err := h.inventoryService.Update(c.Request().Context(), tid, item)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *InventoryHandlers) Delete(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.inventoryService.Delete(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandlers) LowStock(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.inventoryService.LowStock(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

func (h *InventoryHandlers) OutOfStock(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.inventoryService.OutOfStock(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// Expiring lists perishable items expiring within ?days= (default from config).
func (h *InventoryHandlers) Expiring(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	days, err := queryInt(c, "days", h.lookaheadDays)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.inventoryService.ExpiringWithin(c.Request().Context(), tid, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items, "days": days})
}

// Enums returns the accepted values of every enumerated field.
func (h *InventoryHandlers) Enums(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"inventory_categories": models.InventoryCategories(),
		"transaction_types":    models.InventoryTransactionTypes(),
		"table_statuses":       models.TableStatuses(),
		"table_types":          models.TableTypes(),
		"order_statuses":       models.OrderStatuses(),
		"payment_statuses":     models.PaymentStatuses(),
		"order_types":          models.OrderTypes(),
		"difficulty_levels":    models.DifficultyLevels(),
	})
}
