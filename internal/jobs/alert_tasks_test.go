package jobs

import (
	"context"
	"encoding/json"
	"errors"

	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	tasks []*asynq.Task
	fail  map[uuid.UUID]bool
}

func (q *recordingQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var payload alertCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return nil, err
	}
	if q.fail[payload.TenantID] {
		return nil, errors.New("redis unavailable")
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Queue: AlertQueue, Type: task.Type()}, nil
}

func (suite *InventoryAlertsTestSuite) TestEnqueueAllTenantsQueuesEachRestaurant() {
	first := &models.Restaurant{ID: uuid.New(), IsActive: true}
	second := &models.Restaurant{ID: uuid.New(), IsActive: true}
	suite.restaurants.On("ListActive", suite.ctx, restaurantPageSize, 0).
		Return([]*models.Restaurant{first, second}, nil)

	queue := &recordingQueue{fail: map[uuid.UUID]bool{second.ID: true}}
	summary, err := suite.service.EnqueueAllTenants(suite.ctx, queue)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, summary.Restaurants)
	assert.Equal(suite.T(), 1, summary.Failed)
	require.Len(suite.T(), queue.tasks, 1)
	assert.Equal(suite.T(), TypeAlertCheck, queue.tasks[0].Type())
}

func (suite *InventoryAlertsTestSuite) TestEnqueueAllTenantsListFailure() {
	suite.restaurants.On("ListActive", suite.ctx, restaurantPageSize, 0).Return(nil, errors.New("db down"))

	_, err := suite.service.EnqueueAllTenants(suite.ctx, &recordingQueue{})

	assert.EqualError(suite.T(), err, "db down")
}

func (suite *InventoryAlertsTestSuite) TestHandleAlertCheckTask() {
	tenantID := uuid.New()
	suite.inventory.On("OutOfStock", suite.ctx, tenantID).
		Return([]*models.InventoryItem{item(tenantID, "RICE", 0, 5, 10)}, nil)
	suite.inventory.On("LowStock", suite.ctx, tenantID).Return([]*models.InventoryItem{}, nil)
	suite.inventory.On("ExpiringWithin", suite.ctx, tenantID, 3).Return([]*models.InventoryItem{}, nil)

	task, err := NewAlertCheckTask(tenantID)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.service.HandleAlertCheckTask(suite.ctx, task))
	assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.StockAlerts.WithLabelValues(AlertOutOfStock)))
}

func (suite *InventoryAlertsTestSuite) TestHandleAlertCheckTaskSkipsRetryOnBadPayload() {
	err := suite.service.HandleAlertCheckTask(suite.ctx, asynq.NewTask(TypeAlertCheck, []byte("{")))
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, asynq.SkipRetry))

	err = suite.service.HandleAlertCheckTask(suite.ctx, asynq.NewTask(TypeAlertCheck, []byte(`{}`)))
	assert.True(suite.T(), errors.Is(err, asynq.SkipRetry))
}

func (suite *InventoryAlertsTestSuite) TestHandleAlertCheckTaskRetriesOnFailure() {
	tenantID := uuid.New()
	suite.inventory.On("OutOfStock", suite.ctx, tenantID).Return(nil, errors.New("timeout"))

	task, err := NewAlertCheckTask(tenantID)
	require.NoError(suite.T(), err)

	err = suite.service.HandleAlertCheckTask(suite.ctx, task)
	require.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, asynq.SkipRetry))
}
