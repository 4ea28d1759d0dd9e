package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "checky"

// CachedAPIKey is the resolution result stored for an API key hash.
type CachedAPIKey struct {
	KeyID    uuid.UUID `json:"key_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// CacheService is a read-through cache in front of postgres. A miss is
// reported as (nil, nil).
type CacheService interface {
	GetRestaurant(ctx context.Context, tenantID uuid.UUID) (*models.Restaurant, error)
	SetRestaurant(ctx context.Context, restaurant *models.Restaurant, ttl time.Duration) error
	DeleteRestaurant(ctx context.Context, tenantID uuid.UUID) error

	GetMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.MenuItem, error)
	SetMenuItem(ctx context.Context, item *models.MenuItem, ttl time.Duration) error
	DeleteMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) error

	GetAPIKey(ctx context.Context, keyHash string) (*CachedAPIKey, error)
	SetAPIKey(ctx context.Context, keyHash string, entry *CachedAPIKey, ttl time.Duration) error
	DeleteAPIKey(ctx context.Context, keyHash string) error

	GetSalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.SalesSummary, error)
	SetSalesSummary(ctx context.Context, summary *models.SalesSummary, ttl time.Duration) error

	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// IsRateLimited counts one hit against key and reports whether the
	// window's limit is exceeded.
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient accepts either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func restaurantKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:restaurant:%s", keyPrefix, tenantID)
}

func menuItemKey(tenantID, menuItemID uuid.UUID) string {
	return fmt.Sprintf("%s:menu_item:%s:%s", keyPrefix, tenantID, menuItemID)
}

func apiKeyKey(keyHash string) string {
	return fmt.Sprintf("%s:api_key:%s", keyPrefix, keyHash)
}

func salesSummaryKey(tenantID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("%s:sales:%s:%d:%d", keyPrefix, tenantID, from.Unix(), to.Unix())
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetRestaurant(ctx context.Context, tenantID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	found, err := r.getJSON(ctx, restaurantKey(tenantID), &restaurant)
	if err != nil || !found {
		return nil, err
	}
	return &restaurant, nil
}

func (r *redisCacheService) SetRestaurant(ctx context.Context, restaurant *models.Restaurant, ttl time.Duration) error {
	return r.setJSON(ctx, restaurantKey(restaurant.ID), restaurant, ttl)
}

func (r *redisCacheService) DeleteRestaurant(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, restaurantKey(tenantID)).Err()
}

func (r *redisCacheService) GetMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	found, err := r.getJSON(ctx, menuItemKey(tenantID, menuItemID), &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetMenuItem(ctx context.Context, item *models.MenuItem, ttl time.Duration) error {
	return r.setJSON(ctx, menuItemKey(item.TenantID, item.ID), item, ttl)
}

func (r *redisCacheService) DeleteMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) error {
	return r.client.Del(ctx, menuItemKey(tenantID, menuItemID)).Err()
}

func (r *redisCacheService) GetAPIKey(ctx context.Context, keyHash string) (*CachedAPIKey, error) {
	var entry CachedAPIKey
	found, err := r.getJSON(ctx, apiKeyKey(keyHash), &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (r *redisCacheService) SetAPIKey(ctx context.Context, keyHash string, entry *CachedAPIKey, ttl time.Duration) error {
	return r.setJSON(ctx, apiKeyKey(keyHash), entry, ttl)
}

func (r *redisCacheService) DeleteAPIKey(ctx context.Context, keyHash string) error {
	return r.client.Del(ctx, apiKeyKey(keyHash)).Err()
}

func (r *redisCacheService) GetSalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.SalesSummary, error) {
	var summary models.SalesSummary
	found, err := r.getJSON(ctx, salesSummaryKey(tenantID, from, to), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetSalesSummary(ctx context.Context, summary *models.SalesSummary, ttl time.Duration) error {
	return r.setJSON(ctx, salesSummaryKey(summary.TenantID, summary.From, summary.To), summary, ttl)
}

// InvalidateTenantCache drops the restaurant profile, every cached menu item
// and every cached sales report of the tenant.
func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	keys := []string{restaurantKey(tenantID)}
	for _, pattern := range []string{
		fmt.Sprintf("%s:menu_item:%s:*", keyPrefix, tenantID),
		fmt.Sprintf("%s:sales:%s:*", keyPrefix, tenantID),
	} {
		iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// first hit opens the window
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
