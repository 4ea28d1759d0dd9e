package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InventoryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*models.InventoryItem, error)
	Update(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryItemFilter) ([]*models.InventoryItem, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error)
	OutOfStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error)
	ExpiringWithin(ctx context.Context, tenantID uuid.UUID, days int) ([]*models.InventoryItem, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	ledger        InventoryLedger
	logger        *zap.Logger
	now           func() time.Time
}

func NewInventoryService(inventoryRepo repositories.InventoryRepository, ledger InventoryLedger, logger *zap.Logger) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		ledger:        ledger,
		logger:        logger,
		now:           time.Now,
	}
}

func validateInventoryItem(item *models.InventoryItem) error {
	if err := common.ValidateRequiredString(item.ItemCode, "item_code"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(item.Unit, "unit"); err != nil {
		return err
	}
	category, err := models.ParseInventoryCategory(string(item.Category))
	if err != nil {
		return err
	}
	item.Category = category
	for name, v := range map[string]decimal.Decimal{
		"minimum_stock":    item.MinimumStock,
		"reorder_level":    item.ReorderLevel,
		"reorder_quantity": item.ReorderQuantity,
		"unit_cost":        item.UnitCost,
	} {
		if v.IsNegative() {
			return common.Invalid("%s cannot be negative", name)
		}
	}
	return nil
}

// Create registers an item with zero stock and books any opening quantity as
// a STOCK_IN in the same transaction so the ledger accounts for every unit.
func (s *inventoryService) Create(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) (*models.InventoryItem, error) {
	item.ItemCode = strings.TrimSpace(item.ItemCode)
	if err := validateInventoryItem(item); err != nil {
		return nil, err
	}
	opening := item.CurrentStock
	if opening.IsNegative() {
		return nil, common.Invalid("current_stock cannot be negative")
	}

	item.ID = uuid.New()
	item.TenantID = tenantID
	item.CurrentStock = decimal.Zero
	item.IsActive = true

	if opening.IsPositive() {
		notes := "Opening stock"
		unitCost := item.UnitCost
		if _, err := s.ledger.OpenItem(ctx, item, opening, models.TransactionMetadata{
			UnitCost:   &unitCost,
			Notes:      &notes,
			ExpiryDate: item.ExpiryDate,
		}); err != nil {
			return nil, fmt.Errorf("book opening stock: %w", err)
		}
		item.CurrentStock = opening
	} else if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("inventory item created",
		zap.Stringer("tenant_id", tenantID),
		zap.String("item_code", item.ItemCode))
	return item, nil
}

func (s *inventoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	return s.inventoryRepo.GetByID(ctx, tenantID, id)
}

func (s *inventoryService) GetByCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*models.InventoryItem, error) {
	return s.inventoryRepo.GetByCode(ctx, tenantID, strings.TrimSpace(itemCode))
}

// Update rewrites descriptive fields; stock is left to the ledger.
func (s *inventoryService) Update(ctx context.Context, tenantID uuid.UUID, item *models.InventoryItem) (*models.InventoryItem, error) {
	existing, err := s.inventoryRepo.GetByID(ctx, tenantID, item.ID)
	if err != nil {
		return nil, err
	}
	item.TenantID = tenantID
	item.ItemCode = existing.ItemCode
	if err := validateInventoryItem(item); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.inventoryRepo.GetByID(ctx, tenantID, item.ID)
}

func (s *inventoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.inventoryRepo.Delete(ctx, tenantID, id)
}

func (s *inventoryService) List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryItemFilter) ([]*models.InventoryItem, error) {
	if filter == nil {
		filter = &models.InventoryItemFilter{}
	}
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.inventoryRepo.List(ctx, tenantID, filter)
}

func (s *inventoryService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	return s.List(ctx, tenantID, &models.InventoryItemFilter{LowStock: true, Limit: 1000})
}

func (s *inventoryService) OutOfStock(ctx context.Context, tenantID uuid.UUID) ([]*models.InventoryItem, error) {
	return s.List(ctx, tenantID, &models.InventoryItemFilter{OutOfStock: true, Limit: 1000})
}

// ExpiringWithin lists perishable items whose expiry falls within days from now.
func (s *inventoryService) ExpiringWithin(ctx context.Context, tenantID uuid.UUID, days int) ([]*models.InventoryItem, error) {
	if days < 0 {
		return nil, common.Invalid("days cannot be negative")
	}
	cutoff := s.now().UTC().AddDate(0, 0, days)
	return s.List(ctx, tenantID, &models.InventoryItemFilter{ExpiringBefore: &cutoff, Limit: 1000})
}
