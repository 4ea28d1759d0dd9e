package handlers

import (
	"net/http"

	"checky/internal/models"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// OrderHandlers serves the order endpoints.
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

type OrderLineRequest struct {
	MenuItemID uuid.UUID        `json:"menu_item_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Notes      *string          `json:"notes"`
}

type CreateOrderRequest struct {
	OrderType      string             `json:"order_type"`
	TableNumber    *string            `json:"table_number" validate:"omitempty,max=20"`
	CustomerName   *string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone  *string            `json:"customer_phone" validate:"omitempty,max=50"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	PaymentMethod  *string            `json:"payment_method" validate:"omitempty,max=50"`
	Notes          *string            `json:"notes"`
	Items          []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *CreateOrderRequest) toDraft() *models.OrderDraft {
	draft := &models.OrderDraft{
		OrderType:      models.OrderType(r.OrderType),
		TableNumber:    r.TableNumber,
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		DiscountAmount: r.DiscountAmount,
		PaymentMethod:  r.PaymentMethod,
		Notes:          r.Notes,
		Items:          make([]models.OrderLineDraft, 0, len(r.Items)),
	}
	for _, line := range r.Items {
		draft.Items = append(draft.Items, models.OrderLineDraft{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Notes:      line.Notes,
		})
	}
	return draft
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PaymentStatusRequest struct {
	PaymentStatus string  `json:"payment_status" validate:"required"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,max=50"`
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Prices come from the menu unless unit_price is given. Tax and service charge use the restaurant's rates. Recipe ingredients are deducted after the order is saved and the per-ingredient outcome is returned in inventory_consumption.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      CreateOrderRequest  true  "Order"
// @Success      201   {object}  models.Order
// @Failure      400   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/orders [post]
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.CreateOrder(c.Request().Context(), tid, req.toDraft())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders godoc
// @Summary      List orders, newest first
// @Tags         orders
// @Produce      json
// @Param        status  query  string  false  "Order status"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Page offset"
// @Security     ApiKeyAuth
// @Router       /api/orders [get]
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return respondError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, err)
	}
	orders, err := h.orderService.List(c.Request().Context(), tid, c.QueryParam("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *OrderHandlers) GetOrder(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) GetOrderByNumber(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.GetByNumber(c.Request().Context(), tid, c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req OrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.UpdateStatus(c.Request().Context(), tid, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateItemStatus godoc
// @Summary      Move one order line through the kitchen
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Order ID"
// @Param        item_id  path      string              true  "Order item ID"
// @Param        body     body      OrderStatusRequest  true  "PENDING, PREPARING, READY, SERVED or CANCELLED"
// @Success      200      {object}  models.OrderItem
// @Failure      404      {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/orders/{id}/items/{item_id}/status [patch]
func (h *OrderHandlers) UpdateItemStatus(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return respondError(c, err)
	}
	var req OrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.orderService.UpdateItemStatus(c.Request().Context(), tid, orderID, itemID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OrderHandlers) UpdatePayment(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req PaymentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.UpdatePaymentStatus(c.Request().Context(), tid, id, req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder marks an order cancelled. Ingredients already consumed are not
// returned to stock.
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.orderService.CancelOrder(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
