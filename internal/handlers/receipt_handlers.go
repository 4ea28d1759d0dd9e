package handlers

import (
	"bytes"
	"net/http"

	"checky/internal/services"

	"github.com/labstack/echo/v4"
)

type ReceiptHandlers struct {
	receiptService services.ReceiptService
}

func NewReceiptHandlers(receiptService services.ReceiptService) *ReceiptHandlers {
	return &ReceiptHandlers{receiptService: receiptService}
}

// Receipt godoc
// @Summary      Printable receipt for an order
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "Order ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/orders/{id}/receipt [get]
func (h *ReceiptHandlers) Receipt(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := h.receiptService.Render(c.Request().Context(), tid, id, &buf); err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="receipt-`+id.String()+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
