package services

import (
	"context"
	"io"
	"time"

	"checky/internal/caching"
	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MenuImageConfig names the bucket menu images live in.
type MenuImageConfig struct {
	Bucket    string
	URLExpiry time.Duration
}

type MenuService interface {
	CreateCategory(ctx context.Context, tenantID uuid.UUID, category *models.MenuCategory) (*models.MenuCategory, error)
	GetCategory(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, tenantID uuid.UUID, category *models.MenuCategory) (*models.MenuCategory, error)
	DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error)

	CreateItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem) (*models.MenuItem, error)
	GetItem(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, tenantID, id uuid.UUID) error
	ListItems(ctx context.Context, tenantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error)

	UploadItemImage(ctx context.Context, tenantID, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error)
	ItemImageURL(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

type menuService struct {
	categoryRepo repositories.CategoryRepository
	menuItemRepo repositories.MenuItemRepository
	cacheService caching.CacheService
	storage      MinioService
	images       MenuImageConfig
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewMenuService(
	categoryRepo repositories.CategoryRepository,
	menuItemRepo repositories.MenuItemRepository,
	cacheService caching.CacheService,
	storage MinioService,
	images MenuImageConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) MenuService {
	return &menuService{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
		cacheService: cacheService,
		storage:      storage,
		images:       images,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func (s *menuService) CreateCategory(ctx context.Context, tenantID uuid.UUID, category *models.MenuCategory) (*models.MenuCategory, error) {
	if err := common.ValidateRequiredString(category.Name, "name"); err != nil {
		return nil, err
	}
	category.ID = uuid.New()
	category.TenantID = tenantID
	category.IsActive = true
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *menuService) GetCategory(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuCategory, error) {
	return s.categoryRepo.GetByID(ctx, tenantID, id)
}

func (s *menuService) UpdateCategory(ctx context.Context, tenantID uuid.UUID, category *models.MenuCategory) (*models.MenuCategory, error) {
	if err := common.ValidateRequiredString(category.Name, "name"); err != nil {
		return nil, err
	}
	category.TenantID = tenantID
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, tenantID, category.ID)
}

func (s *menuService) DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, tenantID, id)
}

func (s *menuService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error) {
	return s.categoryRepo.List(ctx, tenantID)
}

func (s *menuService) validateItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem) error {
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return err
	}
	if item.Price.IsNegative() {
		return common.Invalid("price cannot be negative")
	}
	if item.PreparationTime != nil && *item.PreparationTime < 0 {
		return common.Invalid("preparation_time cannot be negative")
	}
	if item.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, tenantID, *item.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (s *menuService) CreateItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem) (*models.MenuItem, error) {
	if err := s.validateItem(ctx, tenantID, item); err != nil {
		return nil, err
	}
	item.ID = uuid.New()
	item.TenantID = tenantID
	item.IsActive = true
	if err := s.menuItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) GetItem(ctx context.Context, tenantID, id uuid.UUID) (*models.MenuItem, error) {
	cached, err := s.cacheService.GetMenuItem(ctx, tenantID, id)
	if err != nil {
		s.logger.Warn("menu item cache read failed", zap.Stringer("menu_item_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	item, err := s.menuItemRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetMenuItem(ctx, item, s.cacheTTL); err != nil {
		s.logger.Warn("menu item cache write failed", zap.Stringer("menu_item_id", id), zap.Error(err))
	}
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, tenantID uuid.UUID, item *models.MenuItem) (*models.MenuItem, error) {
	if err := s.validateItem(ctx, tenantID, item); err != nil {
		return nil, err
	}
	item.TenantID = tenantID
	if err := s.menuItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.evictItem(ctx, tenantID, item.ID)
	return s.menuItemRepo.GetByID(ctx, tenantID, item.ID)
}

func (s *menuService) DeleteItem(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.menuItemRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.evictItem(ctx, tenantID, id)
	return nil
}

func (s *menuService) ListItems(ctx context.Context, tenantID uuid.UUID, filter *models.MenuItemFilter) ([]*models.MenuItem, error) {
	if filter == nil {
		filter = &models.MenuItemFilter{}
	}
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	return s.menuItemRepo.List(ctx, tenantID, filter)
}

// UploadItemImage stores a new image and points the item at it. The previous
// object, if any, is removed after the row is updated.
func (s *menuService) UploadItemImage(ctx context.Context, tenantID, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	objectName, err := menuImageObjectName(tenantID, id, contentType)
	if err != nil {
		return nil, common.Invalid("%s", err.Error())
	}

	if err := s.storage.UploadImage(ctx, s.images.Bucket, objectName, reader, size, contentType); err != nil {
		return nil, err
	}
	if err := s.menuItemRepo.SetImageKey(ctx, tenantID, id, &objectName); err != nil {
		return nil, err
	}
	s.evictItem(ctx, tenantID, id)

	if item.ImageKey != nil {
		if err := s.storage.DeleteImage(ctx, s.images.Bucket, *item.ImageKey); err != nil {
			s.logger.Warn("failed to remove replaced menu image", zap.String("object", *item.ImageKey), zap.Error(err))
		}
	}
	item.ImageKey = &objectName
	return item, nil
}

func (s *menuService) ItemImageURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	item, err := s.GetItem(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if item.ImageKey == nil {
		return "", common.NotFound("menu item image")
	}
	return s.storage.GetPresignedURL(ctx, s.images.Bucket, *item.ImageKey, s.images.URLExpiry)
}

func (s *menuService) evictItem(ctx context.Context, tenantID, id uuid.UUID) {
	if err := s.cacheService.DeleteMenuItem(ctx, tenantID, id); err != nil {
		s.logger.Warn("failed to evict menu item from cache", zap.Stringer("menu_item_id", id), zap.Error(err))
	}
}
