package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"checky/internal/common"
	"checky/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var inventoryRowColumns = []string{
	"id", "tenant_id", "item_code", "name", "description", "category", "unit", "current_stock", "minimum_stock",
	"reorder_level", "reorder_quantity", "unit_cost", "supplier_name", "supplier_contact", "last_restocked_date",
	"expiry_date", "is_perishable", "shelf_life_days", "location", "notes", "is_active", "created_at", "updated_at",
}

func inventoryRow(tenantID, itemID uuid.UUID, stock int64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(inventoryRowColumns).AddRow(
		itemID, tenantID, "TOM-01", "Tomato", nil, models.InventoryCategoryIngredient, "kg",
		decimal.NewFromInt(stock), decimal.NewFromInt(1), decimal.NewFromInt(3), decimal.NewFromInt(20),
		decimal.NewFromInt(2), nil, nil, nil, nil, true, nil, nil, nil, true, now, now,
	)
}

type InventoryTransactionRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     InventoryTransactionRepository
	tenantID uuid.UUID
	itemID   uuid.UUID
	context  context.Context
}

func (suite *InventoryTransactionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInventoryTransactionRepo(mock)
	suite.tenantID = uuid.New()
	suite.itemID = uuid.New()
	suite.context = context.Background()
}

func (suite *InventoryTransactionRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInventoryTransactionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryTransactionRepoTestSuite))
}

func (suite *InventoryTransactionRepoTestSuite) stockOut(qty int64) StockMutation {
	return func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		q := decimal.NewFromInt(qty)
		newStock := item.CurrentStock.Sub(q)
		if newStock.IsNegative() {
			return nil, common.ErrInsufficientStock
		}
		return &models.InventoryTransaction{
			ID:                uuid.New(),
			TenantID:          item.TenantID,
			TransactionNumber: "RECIPE-" + item.TenantID.String() + "-20260101120000000001",
			InventoryItemID:   item.ID,
			Type:              models.TransactionStockOut,
			Quantity:          q,
			PreviousStock:     item.CurrentStock,
			NewStock:          newStock,
			TransactionDate:   time.Now(),
			IsApproved:        true,
		}, nil
	}
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_LocksItemAndWritesLedger() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FROM inventory_items WHERE tenant_id = \$1 AND id = \$2 AND is_active = TRUE FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 10))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE inventory_items SET current_stock = \$1`).
		WithArgs(pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(), suite.tenantID, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	txn, err := suite.repo.Apply(suite.context, suite.tenantID, suite.itemID, suite.stockOut(6))
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), txn.PreviousStock.Equal(decimal.NewFromInt(10)))
	assert.True(suite.T(), txn.NewStock.Equal(decimal.NewFromInt(4)))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_InsufficientStockRollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 2))
	suite.mock.ExpectRollback()

	txn, err := suite.repo.Apply(suite.context, suite.tenantID, suite.itemID, suite.stockOut(6))
	assert.Nil(suite.T(), txn)
	assert.True(suite.T(), errors.Is(err, common.ErrInsufficientStock))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_ItemOfOtherTenantIsNotFound() {
	otherTenant := uuid.New()
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(otherTenant, suite.itemID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	called := false
	_, err := suite.repo.Apply(suite.context, otherTenant, suite.itemID, func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		called = true
		return nil, nil
	})
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
	assert.False(suite.T(), called)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_StockInStampsRestockDate() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 10))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE inventory_items SET current_stock = \$1`).
		WithArgs(pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg(), suite.tenantID, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	txn, err := suite.repo.Apply(suite.context, suite.tenantID, suite.itemID, func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		q := decimal.NewFromInt(5)
		return &models.InventoryTransaction{
			ID:              uuid.New(),
			TenantID:        item.TenantID,
			InventoryItemID: item.ID,
			Type:            models.TransactionStockIn,
			Quantity:        q,
			PreviousStock:   item.CurrentStock,
			NewStock:        item.CurrentStock.Add(q),
			TransactionDate: time.Now(),
			IsApproved:      true,
		}, nil
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), txn.NewStock.Equal(decimal.NewFromInt(15)))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_DuplicateNumberIsAlreadyExists() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 10))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnError(uniqueViolation())
	suite.mock.ExpectRollback()

	_, err := suite.repo.Apply(suite.context, suite.tenantID, suite.itemID, suite.stockOut(1))
	assert.True(suite.T(), errors.Is(err, common.ErrAlreadyExists))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestApply_OnlyStockInMovesExpiry() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 10))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`expiry_date = CASE WHEN \$2 THEN COALESCE\(\$4, expiry_date\) ELSE expiry_date END`).
		WithArgs(pgxmock.AnyArg(), false, pgxmock.AnyArg(), pgxmock.AnyArg(), suite.tenantID, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	expiry := time.Now().AddDate(0, 0, 3)
	out := suite.stockOut(2)
	_, err := suite.repo.Apply(suite.context, suite.tenantID, suite.itemID, func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		txn, err := out(item)
		if err == nil {
			txn.ExpiryDate = &expiry
		}
		return txn, err
	})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) newItem() *models.InventoryItem {
	return &models.InventoryItem{
		ID:           suite.itemID,
		TenantID:     suite.tenantID,
		ItemCode:     "TOM-01",
		Name:         "Tomato",
		Category:     models.InventoryCategoryIngredient,
		Unit:         "kg",
		CurrentStock: decimal.Zero,
		IsActive:     true,
	}
}

func (suite *InventoryTransactionRepoTestSuite) stockIn(qty int64) StockMutation {
	return func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		q := decimal.NewFromInt(qty)
		return &models.InventoryTransaction{
			ID:                uuid.New(),
			TenantID:          item.TenantID,
			TransactionNumber: "INV-" + item.TenantID.String() + "-20260101120000000001",
			InventoryItemID:   item.ID,
			Type:              models.TransactionStockIn,
			Quantity:          q,
			PreviousStock:     item.CurrentStock,
			NewStock:          item.CurrentStock.Add(q),
			TransactionDate:   time.Now(),
			IsApproved:        true,
		}, nil
	}
}

func (suite *InventoryTransactionRepoTestSuite) TestOpen_InsertsItemAndEntryTogether() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO inventory_items`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 0))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE inventory_items SET current_stock = \$1`).
		WithArgs(pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg(), suite.tenantID, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	txn, err := suite.repo.Open(suite.context, suite.newItem(), suite.stockIn(12))
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), txn.PreviousStock.IsZero())
	assert.True(suite.T(), txn.NewStock.Equal(decimal.NewFromInt(12)))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestOpen_FailedEntryRollsBackItem() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO inventory_items`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.tenantID, suite.itemID).
		WillReturnRows(inventoryRow(suite.tenantID, suite.itemID, 0))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnError(uniqueViolation())
	suite.mock.ExpectRollback()

	txn, err := suite.repo.Open(suite.context, suite.newItem(), suite.stockIn(12))
	assert.Nil(suite.T(), txn)
	assert.True(suite.T(), errors.Is(err, common.ErrAlreadyExists))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestOpen_DuplicateCodeSkipsEntry() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO inventory_items`).
		WillReturnError(uniqueViolation())
	suite.mock.ExpectRollback()

	called := false
	_, err := suite.repo.Open(suite.context, suite.newItem(), func(item *models.InventoryItem) (*models.InventoryTransaction, error) {
		called = true
		return nil, nil
	})
	assert.True(suite.T(), errors.Is(err, common.ErrAlreadyExists))
	assert.False(suite.T(), called)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryTransactionRepoTestSuite) TestGetByNumber_NotFound() {
	suite.mock.ExpectQuery(`FROM inventory_transactions WHERE tenant_id = \$1 AND transaction_number = \$2`).
		WithArgs(suite.tenantID, "INV-missing").
		WillReturnError(pgx.ErrNoRows)

	txn, err := suite.repo.GetByNumber(suite.context, suite.tenantID, "INV-missing")
	assert.Nil(suite.T(), txn)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *InventoryTransactionRepoTestSuite) TestList_FiltersByItemAndPending() {
	rows := pgxmock.NewRows([]string{
		"id", "tenant_id", "transaction_number", "inventory_item_id", "transaction_type", "quantity", "unit_cost",
		"total_cost", "previous_stock", "new_stock", "reference_number", "reference_type", "notes",
		"transaction_date", "expiry_date", "batch_number", "location_from", "location_to", "is_approved",
		"approved_by", "approved_date",
	}).AddRow(
		uuid.New(), suite.tenantID, "INV-x-1", suite.itemID, models.TransactionAdjustment, decimal.NewFromInt(2),
		nil, nil, decimal.NewFromInt(4), decimal.NewFromInt(6), nil, nil, nil, time.Now(), nil, nil, nil, nil,
		false, nil, nil,
	)

	suite.mock.ExpectQuery(`AND inventory_item_id = \$2 AND is_approved = FALSE ORDER BY transaction_date DESC`).
		WithArgs(suite.tenantID, suite.itemID, 100, 0).
		WillReturnRows(rows)

	txns, err := suite.repo.List(suite.context, suite.tenantID, &models.InventoryTransactionFilter{
		InventoryItemID: &suite.itemID,
		PendingOnly:     true,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), txns, 1)
	assert.Equal(suite.T(), models.TransactionAdjustment, txns[0].Type)
	assert.False(suite.T(), txns[0].IsApproved)
}
