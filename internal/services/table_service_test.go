package services

import (
	"context"
	"testing"

	"checky/internal/common"
	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Create(ctx context.Context, table *models.RestaurantTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestaurantTable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RestaurantTable), args.Error(1)
}

func (m *MockTableRepository) GetByNumber(ctx context.Context, tenantID uuid.UUID, tableNumber string) (*models.RestaurantTable, error) {
	args := m.Called(ctx, tenantID, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RestaurantTable), args.Error(1)
}

func (m *MockTableRepository) Update(ctx context.Context, table *models.RestaurantTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.TableStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockTableRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTableRepository) List(ctx context.Context, tenantID uuid.UUID, filter *models.TableFilter) ([]*models.RestaurantTable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.RestaurantTable), args.Error(1)
}

func TestTableService_CreateDefaults(t *testing.T) {
	repo := &MockTableRepository{}
	repo.Test(t)
	service := NewTableService(repo, zap.NewNop())
	tenantID := uuid.New()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.RestaurantTable")).Return(nil).Once()

	table, err := service.Create(context.Background(), tenantID, &models.RestaurantTable{TableNumber: " T4 ", Capacity: 4})

	require.NoError(t, err)
	assert.Equal(t, "T4", table.TableNumber)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
	assert.Equal(t, models.TableTypeIndoor, table.Type)
	assert.Equal(t, tenantID, table.TenantID)
	repo.AssertExpectations(t)
}

func TestTableService_CreateInvalid(t *testing.T) {
	service := NewTableService(&MockTableRepository{}, zap.NewNop())
	ctx := context.Background()

	_, err := service.Create(ctx, uuid.New(), &models.RestaurantTable{TableNumber: "T1"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = service.Create(ctx, uuid.New(), &models.RestaurantTable{TableNumber: "T1", Capacity: 2, Type: "ROOFTOP"})
	assert.ErrorIs(t, err, common.ErrInvalidEnumValue)
}

func TestTableService_UpdateStatus(t *testing.T) {
	repo := &MockTableRepository{}
	repo.Test(t)
	service := NewTableService(repo, zap.NewNop())
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	repo.On("UpdateStatus", ctx, tenantID, id, models.TableStatusOccupied).Return(nil).Once()
	repo.On("GetByID", ctx, tenantID, id).Return(&models.RestaurantTable{ID: id, Status: models.TableStatusOccupied}, nil).Once()

	table, err := service.UpdateStatus(ctx, tenantID, id, "occupied")
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)

	_, err = service.UpdateStatus(ctx, tenantID, id, "FLOODED")
	assert.ErrorIs(t, err, common.ErrInvalidEnumValue)
	repo.AssertExpectations(t)
}
