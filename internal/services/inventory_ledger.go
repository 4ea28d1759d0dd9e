package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"checky/internal/common"
	"checky/internal/metrics"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryLedger is the only path that changes an item's current stock.
type InventoryLedger interface {
	ApplyTransaction(ctx context.Context, tenantID, itemID uuid.UUID, txType models.InventoryTransactionType, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error)
	StockIn(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error)
	StockOut(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error)
	Adjust(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, reason string, meta models.TransactionMetadata) (*models.InventoryTransaction, error)
	Transfer(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, from, to string, meta models.TransactionMetadata) (*models.InventoryTransaction, error)
	OpenItem(ctx context.Context, item *models.InventoryItem, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error)

	GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error)
	GetTransactionByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error)
	ListTransactions(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error)
	ApproveTransaction(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error)
}

type inventoryLedger struct {
	txRepo  repositories.InventoryTransactionRepository
	numbers *NumberGenerator
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewInventoryLedger(txRepo repositories.InventoryTransactionRepository, numbers *NumberGenerator, m *metrics.Metrics, logger *zap.Logger) InventoryLedger {
	return &inventoryLedger{
		txRepo:  txRepo,
		numbers: numbers,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// nextStock applies a movement of quantity to previous. TRANSFER only
// relocates and leaves the level as is.
func nextStock(txType models.InventoryTransactionType, previous, quantity decimal.Decimal) (decimal.Decimal, error) {
	var next decimal.Decimal
	switch txType {
	case models.TransactionStockIn, models.TransactionAdjustment, models.TransactionReturn:
		next = previous.Add(quantity)
	case models.TransactionStockOut, models.TransactionDamaged, models.TransactionExpired:
		next = previous.Sub(quantity)
	case models.TransactionTransfer:
		next = previous
	default:
		return decimal.Zero, fmt.Errorf("%w: transaction type %q", common.ErrInvalidEnumValue, txType)
	}
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: have %s, need %s", common.ErrInsufficientStock, previous, quantity.Abs())
	}
	return next, nil
}

func validateQuantity(txType models.InventoryTransactionType, quantity decimal.Decimal) error {
	if err := common.ValidateDecimalPlaces(quantity, common.QuantityPlaces, "quantity"); err != nil {
		return err
	}
	if txType == models.TransactionAdjustment {
		if quantity.IsZero() {
			return common.Invalid("adjustment quantity must be non-zero")
		}
		return nil
	}
	if !quantity.IsPositive() {
		return common.Invalid("quantity must be greater than zero")
	}
	return nil
}

func validateEntry(txType models.InventoryTransactionType, quantity decimal.Decimal, meta models.TransactionMetadata) error {
	if err := validateQuantity(txType, quantity); err != nil {
		return err
	}
	if meta.UnitCost != nil {
		return common.ValidateDecimalPlaces(*meta.UnitCost, common.MoneyPlaces, "unit_cost")
	}
	return nil
}

// entry builds the mutation that records one movement against the locked item.
func (l *inventoryLedger) entry(tenantID uuid.UUID, txType models.InventoryTransactionType, quantity decimal.Decimal, meta models.TransactionMetadata) repositories.StockMutation {
	prefix := meta.NumberPrefix
	if prefix == "" {
		prefix = InventoryNumberPrefix
	}
	return func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		newStock, err := nextStock(txType, item.CurrentStock, quantity)
		if err != nil {
			return nil, err
		}

		txn := &models.InventoryTransaction{
			ID:                uuid.New(),
			TenantID:          tenantID,
			TransactionNumber: l.numbers.Next(prefix, tenantID),
			InventoryItemID:   item.ID,
			Type:              txType,
			Quantity:          quantity,
			UnitCost:          meta.UnitCost,
			PreviousStock:     item.CurrentStock,
			NewStock:          newStock,
			ReferenceNumber:   meta.ReferenceNumber,
			ReferenceType:     meta.ReferenceType,
			Notes:             meta.Notes,
			TransactionDate:   l.now().UTC(),
			ExpiryDate:        meta.ExpiryDate,
			BatchNumber:       meta.BatchNumber,
			LocationFrom:      meta.LocationFrom,
			LocationTo:        meta.LocationTo,
			IsApproved:        true,
		}
		if meta.UnitCost != nil {
			total := meta.UnitCost.Mul(quantity.Abs()).Round(common.MoneyPlaces)
			txn.TotalCost = &total
		}
		return txn, nil
	}
}

func (l *inventoryLedger) recorded(txn *models.InventoryTransaction) {
	l.metrics.RecordLedgerTransaction(string(txn.Type))
	l.logger.Debug("ledger entry recorded",
		zap.String("transaction_number", txn.TransactionNumber),
		zap.String("type", string(txn.Type)),
		zap.Stringer("item_id", txn.InventoryItemID),
		zap.String("previous_stock", txn.PreviousStock.String()),
		zap.String("new_stock", txn.NewStock.String()))
}

func (l *inventoryLedger) ApplyTransaction(ctx context.Context, tenantID, itemID uuid.UUID, txType models.InventoryTransactionType, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	if err := validateEntry(txType, quantity, meta); err != nil {
		return nil, err
	}
	txn, err := l.txRepo.Apply(ctx, tenantID, itemID, l.entry(tenantID, txType, quantity, meta))
	if err != nil {
		return nil, err
	}
	l.recorded(txn)
	return txn, nil
}

// OpenItem inserts a new item with zero stock and books quantity as its first
// STOCK_IN. Either both are stored or neither is.
func (l *inventoryLedger) OpenItem(ctx context.Context, item *models.InventoryItem, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	if err := validateEntry(models.TransactionStockIn, quantity, meta); err != nil {
		return nil, err
	}
	item.CurrentStock = decimal.Zero
	txn, err := l.txRepo.Open(ctx, item, l.entry(item.TenantID, models.TransactionStockIn, quantity, meta))
	if err != nil {
		return nil, err
	}
	l.recorded(txn)
	return txn, nil
}

func (l *inventoryLedger) StockIn(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return l.ApplyTransaction(ctx, tenantID, itemID, models.TransactionStockIn, quantity, meta)
}

func (l *inventoryLedger) StockOut(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return l.ApplyTransaction(ctx, tenantID, itemID, models.TransactionStockOut, quantity, meta)
}

// Adjust records a signed correction. The reason is appended to the notes.
func (l *inventoryLedger) Adjust(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, reason string, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	if err := common.ValidateRequiredString(reason, "reason"); err != nil {
		return nil, err
	}
	notes := reason
	if n := strings.TrimSpace(common.SafeString(meta.Notes)); n != "" {
		notes = n + " - " + reason
	}
	meta.Notes = &notes
	return l.ApplyTransaction(ctx, tenantID, itemID, models.TransactionAdjustment, quantity, meta)
}

// Transfer records a movement between locations. Stock is unchanged.
func (l *inventoryLedger) Transfer(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, from, to string, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	if err := common.ValidateRequiredString(from, "location_from"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(to, "location_to"); err != nil {
		return nil, err
	}
	meta.LocationFrom = &from
	meta.LocationTo = &to
	return l.ApplyTransaction(ctx, tenantID, itemID, models.TransactionTransfer, quantity, meta)
}

func (l *inventoryLedger) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error) {
	return l.txRepo.GetByID(ctx, tenantID, id)
}

func (l *inventoryLedger) GetTransactionByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error) {
	return l.txRepo.GetByNumber(ctx, tenantID, number)
}

func (l *inventoryLedger) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error) {
	if filter != nil && filter.From != nil && filter.To != nil {
		if err := common.ValidateDateRange(*filter.From, *filter.To); err != nil {
			return nil, err
		}
	}
	return l.txRepo.List(ctx, tenantID, filter)
}

func (l *inventoryLedger) ApproveTransaction(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error) {
	if err := common.ValidateRequiredString(approvedBy, "approved_by"); err != nil {
		return nil, err
	}
	return l.txRepo.Approve(ctx, tenantID, id, approvedBy)
}
