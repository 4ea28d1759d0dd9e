package services

import (
	"context"
	"strings"

	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TableService interface {
	Create(ctx context.Context, tenantID uuid.UUID, table *models.RestaurantTable) (*models.RestaurantTable, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestaurantTable, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, tableNumber string) (*models.RestaurantTable, error)
	Update(ctx context.Context, tenantID uuid.UUID, table *models.RestaurantTable) (*models.RestaurantTable, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.RestaurantTable, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.TableFilter) ([]*models.RestaurantTable, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
	logger    *zap.Logger
}

func NewTableService(tableRepo repositories.TableRepository, logger *zap.Logger) TableService {
	return &tableService{tableRepo: tableRepo, logger: logger}
}

func validateTable(table *models.RestaurantTable) error {
	table.TableNumber = strings.TrimSpace(table.TableNumber)
	if err := common.ValidateRequiredString(table.TableNumber, "table_number"); err != nil {
		return err
	}
	if table.Capacity <= 0 {
		return common.Invalid("capacity must be positive")
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if table.Type == "" {
		table.Type = models.TableTypeIndoor
	}
	status, err := models.ParseTableStatus(string(table.Status))
	if err != nil {
		return err
	}
	tableType, err := models.ParseTableType(string(table.Type))
	if err != nil {
		return err
	}
	table.Status, table.Type = status, tableType
	return nil
}

func (s *tableService) Create(ctx context.Context, tenantID uuid.UUID, table *models.RestaurantTable) (*models.RestaurantTable, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	table.ID = uuid.New()
	table.TenantID = tenantID
	table.IsActive = true
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	s.logger.Info("table created", zap.Stringer("tenant_id", tenantID), zap.String("table_number", table.TableNumber))
	return table, nil
}

func (s *tableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RestaurantTable, error) {
	return s.tableRepo.GetByID(ctx, tenantID, id)
}

func (s *tableService) GetByNumber(ctx context.Context, tenantID uuid.UUID, tableNumber string) (*models.RestaurantTable, error) {
	return s.tableRepo.GetByNumber(ctx, tenantID, strings.TrimSpace(tableNumber))
}

func (s *tableService) Update(ctx context.Context, tenantID uuid.UUID, table *models.RestaurantTable) (*models.RestaurantTable, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	table.TenantID = tenantID
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return s.tableRepo.GetByID(ctx, tenantID, table.ID)
}

func (s *tableService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.RestaurantTable, error) {
	parsed, err := models.ParseTableStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.tableRepo.UpdateStatus(ctx, tenantID, id, parsed); err != nil {
		return nil, err
	}
	return s.tableRepo.GetByID(ctx, tenantID, id)
}

func (s *tableService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.tableRepo.Delete(ctx, tenantID, id)
}

func (s *tableService) List(ctx context.Context, tenantID uuid.UUID, filter *models.TableFilter) ([]*models.RestaurantTable, error) {
	return s.tableRepo.List(ctx, tenantID, filter)
}
