package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checky/internal/common"
	"checky/internal/middleware"
	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type HandlersTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	orders   *MockOrderService
	ledger   *MockInventoryLedger
	storage  *MockMinioService
	sales    *MockSalesReporter
	receipts *MockReceiptService
	logs     *observer.ObservedLogs
	tenantID uuid.UUID
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.orders = &MockOrderService{}
	suite.ledger = &MockInventoryLedger{}
	suite.storage = &MockMinioService{}
	suite.sales = &MockSalesReporter{}
	suite.receipts = &MockReceiptService{}
	suite.tenantID = uuid.New()

	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	core, logs := observer.New(zap.InfoLevel)
	suite.logs = logs
	e.HTTPErrorHandler = HTTPErrorHandler(zap.New(core))

	tenant := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Test-Anonymous") == "" {
				ctx := common.WithTenantID(c.Request().Context(), suite.tenantID)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}

	orders := NewOrderHandlers(suite.orders)
	ledger := NewLedgerHandlers(suite.ledger)
	analytics := NewAnalyticsHandlers(suite.sales)
	receipts := NewReceiptHandlers(suite.receipts)
	health := NewHealthHandlers(stubPinger{}, stubPinger{}, suite.storage, "menu-images")

	api := e.Group("/api", tenant)
	api.POST("/orders", orders.CreateOrder)
	api.GET("/orders/:id", orders.GetOrder)
	api.POST("/orders/:id/cancel", orders.CancelOrder)
	api.GET("/orders/:id/receipt", receipts.Receipt)
	api.PATCH("/orders/:id/items/:item_id/status", orders.UpdateItemStatus)
	api.POST("/inventory/stock-out", ledger.StockOut)
	api.GET("/inventory/transactions", ledger.ListTransactions)
	api.GET("/analytics/sales", analytics.SalesSummary)
	e.GET("/api/public/health", health.HealthCheck)
	e.GET("/api/public/info", health.Info)

	suite.echo = e
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
	suite.sales.AssertExpectations(suite.T())
	suite.receipts.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (suite *HandlersTestSuite) TestCreateOrderReturnsConsumption() {
	menuItemID := uuid.New()
	order := &models.Order{
		ID:          uuid.New(),
		TenantID:    suite.tenantID,
		OrderNumber: "ORD-" + suite.tenantID.String() + "-00000000000000000001",
		OrderType:   models.OrderTypeDineIn,
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("118.50"),
		InventoryConsumption: []models.ConsumptionOutcome{{
			MenuItemID: menuItemID,
			Required:   decimal.NewFromInt(6),
			Unit:       "kg",
			Status:     models.ConsumptionSkippedInsufficientStock,
		}},
	}
	suite.orders.On("CreateOrder", mock.Anything, suite.tenantID, mock.MatchedBy(func(d *models.OrderDraft) bool {
		return len(d.Items) == 1 &&
			d.Items[0].MenuItemID == menuItemID &&
			d.Items[0].Quantity == 3 &&
			d.Items[0].UnitPrice == nil &&
			d.OrderType == models.OrderTypeDineIn &&
			d.DiscountAmount.Equal(decimal.RequireFromString("1.5"))
	})).Return(order, nil)

	body := `{"order_type":"DINE_IN","discount_amount":"1.5","items":[{"menu_item_id":"` + menuItemID.String() + `","quantity":3}]}`
	rec := suite.do(http.MethodPost, "/api/orders", body)

	require.Equal(suite.T(), http.StatusCreated, rec.Code)
	var got struct {
		OrderNumber          string `json:"order_number"`
		TotalAmount          string `json:"total_amount"`
		InventoryConsumption []struct {
			Status string `json:"status"`
		} `json:"inventory_consumption"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), order.OrderNumber, got.OrderNumber)
	assert.Equal(suite.T(), "118.5", got.TotalAmount)
	require.Len(suite.T(), got.InventoryConsumption, 1)
	assert.Equal(suite.T(), "SKIPPED_INSUFFICIENT_STOCK", got.InventoryConsumption[0].Status)
}

func (suite *HandlersTestSuite) TestCreateOrderValidation() {
	rec := suite.do(http.MethodPost, "/api/orders", `{"order_type":"DINE_IN","items":[]}`)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(suite.T(), "min=1", resp.Error.Details["items"])
}

func (suite *HandlersTestSuite) TestCreateOrderLineValidation() {
	body := `{"items":[{"menu_item_id":"` + uuid.NewString() + `","quantity":0}]}`
	rec := suite.do(http.MethodPost, "/api/orders", body)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "required", resp.Error.Details["quantity"])
}

func (suite *HandlersTestSuite) TestCreateOrderMalformedBody() {
	rec := suite.do(http.MethodPost, "/api/orders", `{"items":`)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "BAD_REQUEST", decodeError(suite.T(), rec).Error.Code)
}

func (suite *HandlersTestSuite) TestCreateOrderInvalidEnum() {
	suite.orders.On("CreateOrder", mock.Anything, suite.tenantID, mock.Anything).
		Return(nil, common.ErrInvalidEnumValue)

	body := `{"order_type":"DRIVE_THRU","items":[{"menu_item_id":"` + uuid.NewString() + `","quantity":1}]}`
	rec := suite.do(http.MethodPost, "/api/orders", body)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "INVALID_ENUM_VALUE", decodeError(suite.T(), rec).Error.Code)
}

func (suite *HandlersTestSuite) TestGetOrderOtherTenantIsNotFound() {
	id := uuid.New()
	suite.orders.On("GetByID", mock.Anything, suite.tenantID, id).Return(nil, common.NotFound("order"))

	rec := suite.do(http.MethodGet, "/api/orders/"+id.String(), "")

	require.Equal(suite.T(), http.StatusNotFound, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "NOT_FOUND", resp.Error.Code)
	assert.Equal(suite.T(), "order not found", resp.Error.Message)
}

func (suite *HandlersTestSuite) TestGetOrderInvalidID() {
	rec := suite.do(http.MethodGet, "/api/orders/not-a-uuid", "")

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", decodeError(suite.T(), rec).Error.Code)
}

func (suite *HandlersTestSuite) TestMissingTenantIsUnauthorized() {
	rec := suite.do(http.MethodGet, "/api/orders/"+uuid.NewString(), "", "X-Test-Anonymous", "1")

	require.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *HandlersTestSuite) TestUnexpectedErrorIsHidden() {
	id := uuid.New()
	suite.orders.On("CancelOrder", mock.Anything, suite.tenantID, id).
		Return(nil, errors.New("pq: connection refused"))

	rec := suite.do(http.MethodPost, "/api/orders/"+id.String()+"/cancel", "")

	require.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(suite.T(), resp.Error.Message, "pq")
}

func (suite *HandlersTestSuite) TestUnexpectedErrorCauseIsLogged() {
	id := uuid.New()
	suite.orders.On("GetByID", mock.Anything, suite.tenantID, id).
		Return(nil, errors.New("pq: connection reset by peer"))

	rec := suite.do(http.MethodGet, "/api/orders/"+id.String(), "")

	require.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	entries := suite.logs.FilterMessage("unhandled error").All()
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), zap.ErrorLevel, entries[0].Level)
	assert.Equal(suite.T(), "pq: connection reset by peer", entries[0].ContextMap()["error"])
	assert.Equal(suite.T(), "/api/orders/:id", entries[0].ContextMap()["path"])
}

func (suite *HandlersTestSuite) TestClientErrorsAreNotLoggedAsUnhandled() {
	id := uuid.New()
	suite.orders.On("GetByID", mock.Anything, suite.tenantID, id).
		Return(nil, common.NotFound("order"))

	rec := suite.do(http.MethodGet, "/api/orders/"+id.String(), "")

	require.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Zero(suite.T(), suite.logs.FilterMessage("unhandled error").Len())
}

func (suite *HandlersTestSuite) TestStockOutInsufficientStock() {
	itemID := uuid.New()
	suite.ledger.On("StockOut", mock.Anything, suite.tenantID, itemID, mock.MatchedBy(func(q decimal.Decimal) bool {
		return q.Equal(decimal.NewFromInt(6))
	}), mock.Anything).Return(nil, common.ErrInsufficientStock)

	rec := suite.do(http.MethodPost, "/api/inventory/stock-out", `{"inventory_item_id":"`+itemID.String()+`","quantity":6}`)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "INSUFFICIENT_STOCK", decodeError(suite.T(), rec).Error.Code)
}

func (suite *HandlersTestSuite) TestStockOutRequiresItem() {
	rec := suite.do(http.MethodPost, "/api/inventory/stock-out", `{"quantity":6}`)

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "required", decodeError(suite.T(), rec).Error.Details["inventory_item_id"])
}

func (suite *HandlersTestSuite) TestListTransactionsParsesFilter() {
	itemID := uuid.New()
	suite.ledger.On("ListTransactions", mock.Anything, suite.tenantID, mock.MatchedBy(func(f *models.InventoryTransactionFilter) bool {
		return f.InventoryItemID != nil && *f.InventoryItemID == itemID &&
			f.Type != nil && *f.Type == models.TransactionStockOut &&
			f.From != nil && f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To != nil && f.To.Day() == 31 && f.To.Hour() == 23 &&
			f.PendingOnly && f.Limit == 20 && f.Offset == 40
	})).Return([]*models.InventoryTransaction{}, nil)

	target := "/api/inventory/transactions?inventory_item_id=" + itemID.String() +
		"&type=stock_out&from=2024-03-01&to=2024-03-31&pending=true&limit=20&offset=40"
	rec := suite.do(http.MethodGet, target, "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestListTransactionsRejectsBadDate() {
	rec := suite.do(http.MethodGet, "/api/inventory/transactions?from=yesterday", "")

	require.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), decodeError(suite.T(), rec).Error.Message, "from must be a date")
}

func (suite *HandlersTestSuite) TestUpdateItemStatus() {
	orderID, itemID := uuid.New(), uuid.New()
	suite.orders.On("UpdateItemStatus", mock.Anything, suite.tenantID, orderID, itemID, "READY").
		Return(&models.OrderItem{ID: itemID, OrderID: orderID, ItemStatus: models.OrderItemReady}, nil)

	rec := suite.do(http.MethodPatch, "/api/orders/"+orderID.String()+"/items/"+itemID.String()+"/status", `{"status":"READY"}`)

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"item_status":"READY"`)
}

func (suite *HandlersTestSuite) TestReceiptIsPDF() {
	orderID := uuid.New()
	suite.receipts.On("Render", mock.Anything, suite.tenantID, orderID, mock.Anything).Return(nil)

	rec := suite.do(http.MethodGet, "/api/orders/"+orderID.String()+"/receipt", "")

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(suite.T(), strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func (suite *HandlersTestSuite) TestReceiptOtherTenantIsNotFound() {
	orderID := uuid.New()
	suite.receipts.On("Render", mock.Anything, suite.tenantID, orderID, mock.Anything).Return(common.NotFound("order"))

	rec := suite.do(http.MethodGet, "/api/orders/"+orderID.String()+"/receipt", "")

	require.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "NOT_FOUND", decodeError(suite.T(), rec).Error.Code)
}

func (suite *HandlersTestSuite) TestSalesSummaryEndDateIsInclusive() {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	suite.sales.On("SalesSummary", mock.Anything, suite.tenantID, from, end, 3).
		Return(&models.SalesSummary{TenantID: suite.tenantID, OrderCount: 4}, nil)

	rec := suite.do(http.MethodGet, "/api/analytics/sales?from=2026-03-01&to=2026-03-07&top=3", "")

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var summary models.SalesSummary
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(suite.T(), 4, summary.OrderCount)
}

func (suite *HandlersTestSuite) TestSalesSummaryRejectsReversedRange() {
	rec := suite.do(http.MethodGet, "/api/analytics/sales?from=2026-03-07&to=2026-03-01", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestHealthDegradedWhenBucketMissing() {
	suite.storage.On("BucketExists", mock.Anything, "menu-images").Return(false, nil)

	rec := suite.do(http.MethodGet, "/api/public/health", "")

	require.Equal(suite.T(), http.StatusPartialContent, rec.Code)
	var health HealthStatus
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(suite.T(), "degraded", health.Status)
	assert.Equal(suite.T(), "healthy", health.Services["database"])
	assert.Equal(suite.T(), "unhealthy", health.Services["storage"])
}

func (suite *HandlersTestSuite) TestHealthy() {
	suite.storage.On("BucketExists", mock.Anything, "menu-images").Return(true, nil)

	rec := suite.do(http.MethodGet, "/api/public/health", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestInfo() {
	rec := suite.do(http.MethodGet, "/api/public/info", "")

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var info map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(suite.T(), "checky", info["name"])
	assert.Equal(suite.T(), "v1", info["api_version"])
}

func (suite *HandlersTestSuite) TestUnknownRouteUsesEnvelope() {
	rec := suite.do(http.MethodGet, "/nowhere", "")

	require.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "NOT_FOUND", decodeError(suite.T(), rec).Error.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
