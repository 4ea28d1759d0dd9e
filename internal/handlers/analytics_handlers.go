package handlers

import (
	"context"
	"net/http"
	"time"

	"checky/internal/common"
	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SalesReporter interface {
	SalesSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time, topN int) (*models.SalesSummary, error)
}

type AnalyticsHandlers struct {
	reporter SalesReporter
}

func NewAnalyticsHandlers(reporter SalesReporter) *AnalyticsHandlers {
	return &AnalyticsHandlers{reporter: reporter}
}

// SalesSummary godoc
// @Summary      Sales summary for a date range
// @Description  Both dates are inclusive. Defaults to the last 7 days. Cancelled orders are counted separately and excluded from amounts.
// @Tags         analytics
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD)"
// @Param        top   query     int     false  "Number of best selling items"
// @Success      200   {object}  models.SalesSummary
// @Failure      400   {object}  common.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/analytics/sales [get]
func (h *AnalyticsHandlers) SalesSummary(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	from, err := queryDate(c, "from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return respondError(c, err)
	}
	top, err := queryInt(c, "top", 5)
	if err != nil {
		return respondError(c, err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if to == nil {
		to = &today
	}
	if from == nil {
		start := to.AddDate(0, 0, -6)
		from = &start
	}
	if err := common.ValidateDateRange(*from, *to); err != nil {
		return respondError(c, err)
	}

	summary, err := h.reporter.SalesSummary(c.Request().Context(), tid, *from, to.AddDate(0, 0, 1), top)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
