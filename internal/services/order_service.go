package services

import (
	"context"
	"fmt"
	"time"

	"checky/internal/common"
	"checky/internal/metrics"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, draft *models.OrderDraft) (*models.Order, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status string, method *string) (*models.Order, error)
	CancelOrder(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	UpdateItemStatus(ctx context.Context, tenantID, orderID, itemID uuid.UUID, status string) (*models.OrderItem, error)
}

type orderService struct {
	orderRepo         repositories.OrderRepository
	itemRepo          repositories.OrderItemRepository
	menuService       MenuService
	restaurantService RestaurantService
	recipeService     RecipeService
	numbers           *NumberGenerator
	metrics           *metrics.Metrics
	logger            *zap.Logger
	now               func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	itemRepo repositories.OrderItemRepository,
	menuService MenuService,
	restaurantService RestaurantService,
	recipeService RecipeService,
	numbers *NumberGenerator,
	m *metrics.Metrics,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:         orderRepo,
		itemRepo:          itemRepo,
		menuService:       menuService,
		restaurantService: restaurantService,
		recipeService:     recipeService,
		numbers:           numbers,
		metrics:           m,
		logger:            logger,
		now:               time.Now,
	}
}

// OrderTotals are the derived money fields of an order.
type OrderTotals struct {
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	ServiceCharge decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

// ComputeTotals applies percentage rates to subtotal. Tax and service charge
// are rounded half-up to cents; subtotal and discount are used as given.
// decimal.Round rounds half away from zero, which is half-up only because
// subtotal and both rates are never negative.
func ComputeTotals(subtotal, taxRate, serviceChargeRate, discount decimal.Decimal) OrderTotals {
	tax := subtotal.Mul(taxRate).Div(hundred).Round(2)
	service := subtotal.Mul(serviceChargeRate).Div(hundred).Round(2)
	return OrderTotals{
		Subtotal:      subtotal,
		TaxAmount:     tax,
		ServiceCharge: service,
		Discount:      discount,
		Total:         subtotal.Add(tax).Add(service).Sub(discount),
	}
}

func validateDraft(draft *models.OrderDraft) error {
	if draft == nil || len(draft.Items) == 0 {
		return common.Invalid("order must contain at least one item")
	}
	if draft.OrderType == "" {
		draft.OrderType = models.OrderTypeDineIn
	}
	orderType, err := models.ParseOrderType(string(draft.OrderType))
	if err != nil {
		return err
	}
	draft.OrderType = orderType
	if draft.DiscountAmount.IsNegative() {
		return common.Invalid("discount_amount cannot be negative")
	}
	if err := common.ValidateDecimalPlaces(draft.DiscountAmount, common.MoneyPlaces, "discount_amount"); err != nil {
		return err
	}
	for i, line := range draft.Items {
		if line.MenuItemID == uuid.Nil {
			return common.Invalid("items[%d].menu_item_id is required", i)
		}
		if line.Quantity <= 0 {
			return common.Invalid("items[%d].quantity must be positive", i)
		}
		if line.UnitPrice != nil {
			if line.UnitPrice.IsNegative() {
				return common.Invalid("items[%d].unit_price cannot be negative", i)
			}
			if err := common.ValidateDecimalPlaces(*line.UnitPrice, common.MoneyPlaces, fmt.Sprintf("items[%d].unit_price", i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateOrder prices and persists the order, then deducts recipe ingredients
// line by line. Deduction outcomes are reported on the order and never fail
// the call.
func (s *orderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, draft *models.OrderDraft) (*models.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurantService.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:             uuid.New(),
		TenantID:       tenantID,
		OrderNumber:    s.numbers.Next(OrderNumberPrefix, tenantID),
		OrderType:      draft.OrderType,
		Status:         models.OrderStatusPending,
		TableNumber:    draft.TableNumber,
		CustomerName:   draft.CustomerName,
		CustomerPhone:  draft.CustomerPhone,
		PaymentMethod:  draft.PaymentMethod,
		PaymentStatus:  models.PaymentStatusPending,
		Notes:          draft.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
		DiscountAmount: draft.DiscountAmount,
	}

	subtotal := decimal.Zero
	for i, line := range draft.Items {
		menuItem, err := s.menuService.GetItem(ctx, tenantID, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		unitPrice := menuItem.Price
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		order.Items = append(order.Items, models.OrderItem{
			ID:         uuid.New(),
			TenantID:   tenantID,
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			LineNumber: i + 1,
			Quantity:   line.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
			Notes:      line.Notes,
			ItemStatus: models.OrderItemPending,
		})
	}

	totals := ComputeTotals(subtotal, restaurant.TaxRate, restaurant.ServiceChargeRate, draft.DiscountAmount)
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.ServiceCharge = totals.ServiceCharge
	order.TotalAmount = totals.Total

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.metrics.RecordOrderCreated(string(order.OrderType))

	for _, item := range order.Items {
		outcomes := s.recipeService.ConsumeForOrderLine(ctx, tenantID, item.MenuItemID, item.Quantity)
		order.InventoryConsumption = append(order.InventoryConsumption, outcomes...)
	}

	skipped := 0
	for _, o := range order.InventoryConsumption {
		if o.Skipped() {
			skipped++
		}
	}
	s.logger.Info("order created",
		zap.Stringer("tenant_id", tenantID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("ingredients_skipped", skipped))
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, tenantID, id)
}

func (s *orderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error) {
	if err := common.ValidateRequiredString(orderNumber, "order_number"); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByNumber(ctx, tenantID, orderNumber)
}

func (s *orderService) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	var statusFilter *models.OrderStatus
	if status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		statusFilter = &parsed
	}
	return s.orderRepo.List(ctx, tenantID, statusFilter, limit, offset)
}

// UpdateStatus accepts any listed status; the lifecycle order is not enforced.
func (s *orderService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, tenantID, id, parsed); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, tenantID, id)
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status string, method *string) (*models.Order, error) {
	parsed, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdatePayment(ctx, tenantID, id, parsed, method); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, tenantID, id)
}

// UpdateItemStatus moves one line through the kitchen. The line must belong
// to the given order.
func (s *orderService) UpdateItemStatus(ctx context.Context, tenantID, orderID, itemID uuid.UUID, status string) (*models.OrderItem, error) {
	parsed, err := models.ParseOrderItemStatus(status)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if item.OrderID != orderID {
		return nil, common.NotFound("order item")
	}
	if err := s.itemRepo.UpdateStatus(ctx, tenantID, itemID, parsed); err != nil {
		return nil, err
	}
	item.ItemStatus = parsed
	return item, nil
}

// CancelOrder moves a non-terminal order to CANCELLED. Stock already
// deducted for it is not returned.
func (s *orderService) CancelOrder(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case models.OrderStatusServed, models.OrderStatusCancelled:
		return nil, common.Invalid("order %s is already %s", order.OrderNumber, order.Status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, tenantID, id, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	s.logger.Info("order cancelled", zap.Stringer("tenant_id", tenantID), zap.String("order_number", order.OrderNumber))
	return order, nil
}
