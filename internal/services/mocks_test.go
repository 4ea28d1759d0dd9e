package services

import (
	"context"
	"testing"

	"checky/internal/caching"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockInventoryTransactionRepository stands in for the locking repository.
// Apply runs the mutation against the item handed to Return, so repeated
// calls with the same pointer see each other's stock changes.
type MockInventoryTransactionRepository struct {
	mock.Mock
}

func (m *MockInventoryTransactionRepository) Apply(ctx context.Context, tenantID, itemID uuid.UUID, mutate repositories.StockMutation) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	item := args.Get(0).(*models.InventoryItem)
	txn, err := mutate(item)
	if err != nil {
		return nil, err
	}
	item.CurrentStock = txn.NewStock
	return txn, nil
}

// Open runs the mutation against the new item itself. An error from Return
// stands for a failed insert; the mutation's error for a failed entry.
func (m *MockInventoryTransactionRepository) Open(ctx context.Context, item *models.InventoryItem, mutate repositories.StockMutation) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, item)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	txn, err := mutate(item)
	if err != nil {
		return nil, err
	}
	item.CurrentStock = txn.NewStock
	return txn, nil
}

func (m *MockInventoryTransactionRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryTransactionRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryTransactionRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockInventoryTransactionRepository) Approve(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error) {
	args := m.Called(ctx, tenantID, id, approvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryTransaction), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetByCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryItemFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetActiveByMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, tenantID, menuItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.RecipeFilter) ([]*models.Recipe, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ReplaceIngredients(ctx context.Context, tenantID, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error {
	args := m.Called(ctx, tenantID, recipeID, ingredients)
	return args.Error(0)
}

func (m *MockRecipeRepository) ReplaceInstructions(ctx context.Context, tenantID, recipeID uuid.UUID, instructions []models.RecipeInstruction) error {
	args := m.Called(ctx, tenantID, recipeID, instructions)
	return args.Error(0)
}

type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) SetImageKey(ctx context.Context, tenantID, id uuid.UUID, imageKey *string) error {
	args := m.Called(ctx, tenantID, id, imageKey)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockMenuItemRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.MenuCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuCategory), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.MenuCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.MenuCategory), args.Error(1)
}

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRestaurantRepository) ListActive(ctx context.Context, limit, offset int) ([]*models.Restaurant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Restaurant), args.Error(1)
}

type MockApiKeyRepository struct {
	mock.Mock
}

func (m *MockApiKeyRepository) Create(ctx context.Context, key *models.ApiKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockApiKeyRepository) GetByHash(ctx context.Context, keyHash string) (*models.ApiKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.ApiKey, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApiKeyRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, tenantID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePayment(ctx context.Context, tenantID, id uuid.UUID, status models.PaymentStatus, method *string) error {
	args := m.Called(ctx, tenantID, id, status, method)
	return args.Error(0)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.OrderItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.OrderItemStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.OrderItem, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

// newTestCache returns a redis-backed cache on an in-process server.
func newTestCache(t *testing.T) (caching.CacheService, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return caching.NewRedisCacheService(client), server
}
