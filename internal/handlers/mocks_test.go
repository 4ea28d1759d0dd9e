package handlers

import (
	"context"
	"io"
	"time"

	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, draft *models.OrderDraft) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, draft))
}

func (m *MockOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, id))
}

func (m *MockOrderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, orderNumber))
}

func (m *MockOrderService) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, id, status))
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status string, method *string) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, id, status, method))
}

func (m *MockOrderService) CancelOrder(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	return m.order(m.Called(ctx, tenantID, id))
}

func (m *MockOrderService) UpdateItemStatus(ctx context.Context, tenantID, orderID, itemID uuid.UUID, status string) (*models.OrderItem, error) {
	args := m.Called(ctx, tenantID, orderID, itemID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

type MockInventoryLedger struct {
	mock.Mock
}

func (m *MockInventoryLedger) txn(args mock.Arguments) (*models.InventoryTransaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryLedger) ApplyTransaction(ctx context.Context, tenantID, itemID uuid.UUID, txType models.InventoryTransactionType, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, itemID, txType, quantity, meta))
}

func (m *MockInventoryLedger) StockIn(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, itemID, quantity, meta))
}

func (m *MockInventoryLedger) StockOut(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, itemID, quantity, meta))
}

func (m *MockInventoryLedger) Adjust(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, reason string, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, itemID, quantity, reason, meta))
}

func (m *MockInventoryLedger) Transfer(ctx context.Context, tenantID, itemID uuid.UUID, quantity decimal.Decimal, from, to string, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, itemID, quantity, from, to, meta))
}

func (m *MockInventoryLedger) OpenItem(ctx context.Context, item *models.InventoryItem, quantity decimal.Decimal, meta models.TransactionMetadata) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, item, quantity, meta))
}

func (m *MockInventoryLedger) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, id))
}

func (m *MockInventoryLedger) GetTransactionByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, number))
}

func (m *MockInventoryLedger) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryLedger) ApproveTransaction(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error) {
	return m.txn(m.Called(ctx, tenantID, id, approvedBy))
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	return m.Called(ctx, bucketName, objectName, reader, objectSize, contentType).Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	return m.Called(ctx, bucketName, objectName).Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type MockSalesReporter struct {
	mock.Mock
}

func (m *MockSalesReporter) SalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time, topN int) (*models.SalesSummary, error) {
	args := m.Called(ctx, tenantID, from, to, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SalesSummary), args.Error(1)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Render(ctx context.Context, tenantID, orderID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, tenantID, orderID, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "%PDF-1.3 receipt")
	return err
}
