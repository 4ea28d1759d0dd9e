package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"checky/internal/caching"
	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	apiKeyPrefix      = "ck_"
	apiKeyRandomBytes = 24
	apiKeyShownPrefix = 11 // "ck_" plus 8 hex chars
)

type ApiKeyService interface {
	Create(ctx context.Context, tenantID uuid.UUID, description *string, expiresAt *time.Time) (*models.ApiKey, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.ApiKey, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	// ResolveTenant maps a raw key to the restaurant it belongs to.
	ResolveTenant(ctx context.Context, rawKey string) (*caching.CachedAPIKey, error)
}

type apiKeyService struct {
	apiKeyRepo   repositories.ApiKeyRepository
	cacheService caching.CacheService
	cacheTTL     time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewApiKeyService(apiKeyRepo repositories.ApiKeyRepository, cacheService caching.CacheService, cacheTTL time.Duration, logger *zap.Logger) ApiKeyService {
	return &apiKeyService{
		apiKeyRepo:   apiKeyRepo,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// HashAPIKey returns the hex SHA-256 digest stored in place of the raw key.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

func (s *apiKeyService) Create(ctx context.Context, tenantID uuid.UUID, description *string, expiresAt *time.Time) (*models.ApiKey, error) {
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return nil, common.Invalid("expires_at must be in the future")
	}
	raw, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	key := &models.ApiKey{
		ID:          uuid.New(),
		TenantID:    tenantID,
		KeyHash:     HashAPIKey(raw),
		KeyPrefix:   raw[:apiKeyShownPrefix],
		Description: description,
		IsActive:    true,
		ExpiresAt:   expiresAt,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}
	key.PlainKey = raw

	s.logger.Info("api key issued", zap.Stringer("tenant_id", tenantID), zap.String("key_prefix", key.KeyPrefix))
	return key, nil
}

func (s *apiKeyService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.ApiKey, error) {
	return s.apiKeyRepo.ListByTenant(ctx, tenantID)
}

func (s *apiKeyService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	keys, err := s.apiKeyRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	var hash string
	for _, k := range keys {
		if k.ID == id {
			hash = k.KeyHash
			break
		}
	}
	if hash == "" {
		return common.NotFound("api key")
	}

	if err := s.apiKeyRepo.Deactivate(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.cacheService.DeleteAPIKey(ctx, hash); err != nil {
		s.logger.Warn("failed to evict api key from cache", zap.Stringer("api_key_id", id), zap.Error(err))
	}
	return nil
}

// ResolveTenant checks the cache first; a cached entry never outlives the
// key's own expiry. last_used_at is refreshed when the key is read from
// postgres.
func (s *apiKeyService) ResolveTenant(ctx context.Context, rawKey string) (*caching.CachedAPIKey, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return nil, fmt.Errorf("%w: missing api key", common.ErrUnauthorized)
	}
	hash := HashAPIKey(rawKey)

	cached, err := s.cacheService.GetAPIKey(ctx, hash)
	if err != nil {
		s.logger.Warn("api key cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	key, err := s.apiKeyRepo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid api key", common.ErrUnauthorized)
		}
		return nil, err
	}
	now := s.now()
	if !key.IsUsable(now) {
		return nil, fmt.Errorf("%w: api key expired", common.ErrUnauthorized)
	}

	if err := s.apiKeyRepo.TouchLastUsed(ctx, key.ID); err != nil {
		s.logger.Warn("failed to record api key use", zap.Stringer("api_key_id", key.ID), zap.Error(err))
	}

	entry := &caching.CachedAPIKey{KeyID: key.ID, TenantID: key.TenantID}
	ttl := s.cacheTTL
	if key.ExpiresAt != nil {
		if remaining := key.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	if err := s.cacheService.SetAPIKey(ctx, hash, entry, ttl); err != nil {
		s.logger.Warn("api key cache write failed", zap.Error(err))
	}
	return entry, nil
}
