package caching

import (
	"context"
	"testing"
	"time"

	"checky/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CacheServiceTestSuite struct {
	suite.Suite
	server  *miniredis.Miniredis
	client  *redis.Client
	cache   CacheService
	context context.Context
}

func (suite *CacheServiceTestSuite) SetupTest() {
	suite.server = miniredis.RunT(suite.T())
	suite.client = redis.NewClient(&redis.Options{Addr: suite.server.Addr()})
	suite.cache = NewRedisCacheService(suite.client)
	suite.context = context.Background()
}

func (suite *CacheServiceTestSuite) TearDownTest() {
	suite.client.Close()
}

func TestCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CacheServiceTestSuite))
}

func (suite *CacheServiceTestSuite) TestRestaurant_MissThenHit() {
	tenantID := uuid.New()

	got, err := suite.cache.GetRestaurant(suite.context, tenantID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)

	restaurant := &models.Restaurant{
		ID:                tenantID,
		Name:              "Trattoria",
		TaxRate:           decimal.RequireFromString("8.5"),
		ServiceChargeRate: decimal.NewFromInt(10),
		CurrencyCode:      "USD",
		IsActive:          true,
	}
	require.NoError(suite.T(), suite.cache.SetRestaurant(suite.context, restaurant, time.Minute))

	got, err = suite.cache.GetRestaurant(suite.context, tenantID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), got)
	assert.Equal(suite.T(), "Trattoria", got.Name)
	assert.True(suite.T(), got.TaxRate.Equal(decimal.RequireFromString("8.5")))
}

func (suite *CacheServiceTestSuite) TestRestaurant_Expires() {
	restaurant := &models.Restaurant{ID: uuid.New(), Name: "Diner"}
	require.NoError(suite.T(), suite.cache.SetRestaurant(suite.context, restaurant, time.Second))

	suite.server.FastForward(2 * time.Second)

	got, err := suite.cache.GetRestaurant(suite.context, restaurant.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestAPIKey_RoundTripAndDelete() {
	entry := &CachedAPIKey{KeyID: uuid.New(), TenantID: uuid.New()}
	require.NoError(suite.T(), suite.cache.SetAPIKey(suite.context, "abc123", entry, time.Minute))

	got, err := suite.cache.GetAPIKey(suite.context, "abc123")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), entry, got)

	require.NoError(suite.T(), suite.cache.DeleteAPIKey(suite.context, "abc123"))
	got, err = suite.cache.GetAPIKey(suite.context, "abc123")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestInvalidateTenantCache_OnlyTouchesTenant() {
	tenantA, tenantB := uuid.New(), uuid.New()
	itemA := &models.MenuItem{ID: uuid.New(), TenantID: tenantA, Name: "Pizza"}
	itemB := &models.MenuItem{ID: uuid.New(), TenantID: tenantB, Name: "Pasta"}

	require.NoError(suite.T(), suite.cache.SetRestaurant(suite.context, &models.Restaurant{ID: tenantA}, time.Minute))
	require.NoError(suite.T(), suite.cache.SetMenuItem(suite.context, itemA, time.Minute))
	require.NoError(suite.T(), suite.cache.SetMenuItem(suite.context, itemB, time.Minute))

	require.NoError(suite.T(), suite.cache.InvalidateTenantCache(suite.context, tenantA))

	gotA, err := suite.cache.GetMenuItem(suite.context, tenantA, itemA.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), gotA)

	gotB, err := suite.cache.GetMenuItem(suite.context, tenantB, itemB.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), gotB)
	assert.Equal(suite.T(), "Pasta", gotB.Name)

	r, err := suite.cache.GetRestaurant(suite.context, tenantA)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), r)
}

func (suite *CacheServiceTestSuite) TestSalesSummaryRoundTripAndInvalidation() {
	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	summary := &models.SalesSummary{TenantID: tenantID, From: from, To: to, OrderCount: 12, Revenue: decimal.RequireFromString("431.20")}

	require.NoError(suite.T(), suite.cache.SetSalesSummary(suite.context, summary, 5*time.Minute))

	got, err := suite.cache.GetSalesSummary(suite.context, tenantID, from, to)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), got)
	assert.Equal(suite.T(), 12, got.OrderCount)
	assert.True(suite.T(), summary.Revenue.Equal(got.Revenue))

	other, err := suite.cache.GetSalesSummary(suite.context, tenantID, from, to.AddDate(0, 0, 1))
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), other)

	require.NoError(suite.T(), suite.cache.InvalidateTenantCache(suite.context, tenantID))
	got, err = suite.cache.GetSalesSummary(suite.context, tenantID, from, to)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestIsRateLimited() {
	for i := 0; i < 3; i++ {
		limited, err := suite.cache.IsRateLimited(suite.context, "key-1", 3, time.Minute)
		require.NoError(suite.T(), err)
		assert.False(suite.T(), limited)
	}

	limited, err := suite.cache.IsRateLimited(suite.context, "key-1", 3, time.Minute)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), limited)

	suite.server.FastForward(time.Minute + time.Second)

	limited, err = suite.cache.IsRateLimited(suite.context, "key-1", 3, time.Minute)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), limited)
}

func (suite *CacheServiceTestSuite) TestPing() {
	assert.NoError(suite.T(), suite.cache.Ping(suite.context))
}
