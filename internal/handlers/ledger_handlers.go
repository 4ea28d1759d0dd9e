package handlers

import (
	"net/http"
	"time"

	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LedgerHandlers records stock movements and serves the transaction history.
type LedgerHandlers struct {
	ledger services.InventoryLedger
}

func NewLedgerHandlers(ledger services.InventoryLedger) *LedgerHandlers {
	return &LedgerHandlers{ledger: ledger}
}

type StockMovementRequest struct {
	InventoryItemID uuid.UUID        `json:"inventory_item_id" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=100"`
	ReferenceType   *string          `json:"reference_type" validate:"omitempty,max=50"`
	Notes           *string          `json:"notes"`
	ExpiryDate      *time.Time       `json:"expiry_date"`
	BatchNumber     *string          `json:"batch_number" validate:"omitempty,max=100"`
}

func (r *StockMovementRequest) metadata() models.TransactionMetadata {
	return models.TransactionMetadata{
		UnitCost:        r.UnitCost,
		ReferenceNumber: r.ReferenceNumber,
		ReferenceType:   r.ReferenceType,
		Notes:           r.Notes,
		ExpiryDate:      r.ExpiryDate,
		BatchNumber:     r.BatchNumber,
	}
}

type AdjustmentRequest struct {
	StockMovementRequest
	Reason string `json:"reason" validate:"required"`
}

type TransferRequest struct {
	StockMovementRequest
	LocationFrom string `json:"location_from" validate:"required"`
	LocationTo   string `json:"location_to" validate:"required"`
}

type ApproveRequest struct {
	ApprovedBy string `json:"approved_by" validate:"required,max=100"`
}

// StockIn godoc
// @Summary      Receive stock
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      StockMovementRequest  true  "Movement"
// @Success      201   {object}  models.InventoryTransaction
// @Failure      400   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/inventory/stock-in [post]
func (h *LedgerHandlers) StockIn(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req StockMovementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.StockIn(c.Request().Context(), tid, req.InventoryItemID, req.Quantity, req.metadata())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// StockOut godoc
// @Summary      Remove stock
// @Description  Fails with INSUFFICIENT_STOCK when the quantity exceeds current stock.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      StockMovementRequest  true  "Movement"
// @Success      201   {object}  models.InventoryTransaction
// @Failure      400   {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/inventory/stock-out [post]
func (h *LedgerHandlers) StockOut(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req StockMovementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.StockOut(c.Request().Context(), tid, req.InventoryItemID, req.Quantity, req.metadata())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// Adjust books a signed correction, e.g. after a stock count.
func (h *LedgerHandlers) Adjust(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req AdjustmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.Adjust(c.Request().Context(), tid, req.InventoryItemID, req.Quantity, req.Reason, req.metadata())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

func (h *LedgerHandlers) Transfer(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req TransferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.Transfer(c.Request().Context(), tid, req.InventoryItemID, req.Quantity, req.LocationFrom, req.LocationTo, req.metadata())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// ListTransactions godoc
// @Summary      Ledger history
// @Tags         ledger
// @Produce      json
// @Param        inventory_item_id  query  string  false  "Item"
// @Param        type               query  string  false  "Transaction type"
// @Param        from               query  string  false  "From date (YYYY-MM-DD)"
// @Param        to                 query  string  false  "To date (YYYY-MM-DD)"
// @Param        pending            query  bool    false  "Only unapproved"
// @Param        limit              query  int     false  "Page size"
// @Param        offset             query  int     false  "Page offset"
// @Security     ApiKeyAuth
// @Router       /api/inventory/transactions [get]
func (h *LedgerHandlers) ListTransactions(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter, err := transactionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	txns, err := h.ledger.ListTransactions(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})
}

// PendingApprovals lists transactions that have not been approved yet.
func (h *LedgerHandlers) PendingApprovals(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter, err := transactionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.PendingOnly = true
	txns, err := h.ledger.ListTransactions(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transactions": txns})
}

// ItemTransactions lists the history of a single item.
func (h *LedgerHandlers) ItemTransactions(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	filter, err := transactionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.InventoryItemID = &itemID
	txns, err := h.ledger.ListTransactions(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transactions": txns})
}

func (h *LedgerHandlers) GetTransaction(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.GetTransaction(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

func (h *LedgerHandlers) GetTransactionByNumber(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.GetTransactionByNumber(c.Request().Context(), tid, c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

func (h *LedgerHandlers) Approve(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ApproveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	txn, err := h.ledger.ApproveTransaction(c.Request().Context(), tid, id, req.ApprovedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

func transactionFilter(c echo.Context) (*models.InventoryTransactionFilter, error) {
	filter := &models.InventoryTransactionFilter{}
	if raw := c.QueryParam("inventory_item_id"); raw != "" {
		itemID, err := common.ValidateUUID(raw, "inventory_item_id")
		if err != nil {
			return nil, err
		}
		filter.InventoryItemID = &itemID
	}
	if raw := c.QueryParam("type"); raw != "" {
		txType, err := models.ParseInventoryTransactionType(raw)
		if err != nil {
			return nil, err
		}
		filter.Type = &txType
	}
	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		return nil, err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return nil, err
	}
	if filter.To != nil {
		// inclusive of the whole day
		end := filter.To.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	pending, err := queryBool(c, "pending")
	if err != nil {
		return nil, err
	}
	filter.PendingOnly = pending != nil && *pending
	if filter.Limit, err = queryInt(c, "limit", 50); err != nil {
		return nil, err
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		return nil, err
	}
	return filter, nil
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	var t time.Time
	if err := echo.QueryParamsBinder(c).Time(name, &t, dateLayout).BindError(); err != nil {
		return nil, common.Invalid("%s must be a date (YYYY-MM-DD)", name)
	}
	return &t, nil
}
