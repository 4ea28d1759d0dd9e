package services

import (
	"context"
	"strings"
	"time"

	"checky/internal/caching"
	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RestaurantService interface {
	Create(ctx context.Context, req *RestaurantRequest) (*models.Restaurant, error)
	GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Restaurant, error)
	Update(ctx context.Context, tenantID uuid.UUID, req *RestaurantRequest) (*models.Restaurant, error)
	Deactivate(ctx context.Context, tenantID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	cacheService   caching.CacheService
	cacheTTL       time.Duration
	logger         *zap.Logger
}

func NewRestaurantService(restaurantRepo repositories.RestaurantRepository, cacheService caching.CacheService, cacheTTL time.Duration, logger *zap.Logger) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		cacheService:   cacheService,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

type RestaurantRequest struct {
	Name              string           `json:"name" validate:"required,max=200"`
	Description       *string          `json:"description"`
	Address           *string          `json:"address"`
	Phone             *string          `json:"phone"`
	Email             *string          `json:"email" validate:"omitempty,email"`
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	ServiceChargeRate *decimal.Decimal `json:"service_charge_rate"`
	CurrencyCode      string           `json:"currency_code" validate:"omitempty,len=3"`
	Timezone          string           `json:"timezone"`
}

var hundred = decimal.NewFromInt(100)

func validRate(name string, rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return common.Invalid("%s must be between 0 and 100", name)
	}
	return nil
}

func (req *RestaurantRequest) validate() error {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	if err := validRate("tax_rate", req.TaxRate); err != nil {
		return err
	}
	if err := validRate("service_charge_rate", req.ServiceChargeRate); err != nil {
		return err
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return common.Invalid("unknown timezone %q", req.Timezone)
		}
	}
	return nil
}

func (req *RestaurantRequest) apply(r *models.Restaurant) {
	r.Name = strings.TrimSpace(req.Name)
	r.Description = req.Description
	r.Address = req.Address
	r.Phone = req.Phone
	r.Email = req.Email
	if req.TaxRate != nil {
		r.TaxRate = *req.TaxRate
	}
	if req.ServiceChargeRate != nil {
		r.ServiceChargeRate = *req.ServiceChargeRate
	}
	if req.CurrencyCode != "" {
		r.CurrencyCode = strings.ToUpper(req.CurrencyCode)
	}
	if req.Timezone != "" {
		r.Timezone = req.Timezone
	}
}

func (s *restaurantService) Create(ctx context.Context, req *RestaurantRequest) (*models.Restaurant, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		ID:           uuid.New(),
		CurrencyCode: "USD",
		Timezone:     "UTC",
		IsActive:     true,
	}
	req.apply(restaurant)

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, err
	}

	s.logger.Info("restaurant created", zap.Stringer("tenant_id", restaurant.ID), zap.String("name", restaurant.Name))
	return restaurant, nil
}

// GetByID reads through the cache. Cache failures fall back to postgres.
func (s *restaurantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Restaurant, error) {
	cached, err := s.cacheService.GetRestaurant(ctx, tenantID)
	if err != nil {
		s.logger.Warn("restaurant cache read failed", zap.Stringer("tenant_id", tenantID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetRestaurant(ctx, restaurant, s.cacheTTL); err != nil {
		s.logger.Warn("restaurant cache write failed", zap.Stringer("tenant_id", tenantID), zap.Error(err))
	}
	return restaurant, nil
}

func (s *restaurantService) Update(ctx context.Context, tenantID uuid.UUID, req *RestaurantRequest) (*models.Restaurant, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	req.apply(restaurant)

	if err := s.restaurantRepo.Update(ctx, restaurant); err != nil {
		return nil, err
	}
	if err := s.cacheService.DeleteRestaurant(ctx, tenantID); err != nil {
		s.logger.Warn("failed to evict cached restaurant", zap.Stringer("tenant_id", tenantID), zap.Error(err))
	}
	return restaurant, nil
}

func (s *restaurantService) Deactivate(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.restaurantRepo.Deactivate(ctx, tenantID); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	s.logger.Info("restaurant deactivated", zap.Stringer("tenant_id", tenantID))
	return nil
}

func (s *restaurantService) List(ctx context.Context, limit, offset int) ([]*models.Restaurant, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.restaurantRepo.ListActive(ctx, limit, offset)
}

func (s *restaurantService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cacheService.InvalidateTenantCache(ctx, tenantID); err != nil {
		s.logger.Warn("failed to invalidate restaurant cache", zap.Stringer("tenant_id", tenantID), zap.Error(err))
	}
}
