package handlers

import (
	"net/http"

	"checky/internal/models"
	"checky/internal/services"

	"github.com/labstack/echo/v4"
)

type TableHandlers struct {
	tableService services.TableService
}

func NewTableHandlers(tableService services.TableService) *TableHandlers {
	return &TableHandlers{tableService: tableService}
}

type TableRequest struct {
	TableNumber  string  `json:"table_number" validate:"required,max=20"`
	TableName    *string `json:"table_name"`
	Capacity     int     `json:"capacity" validate:"gte=0"`
	Status       string  `json:"status"`
	TableType    string  `json:"table_type"`
	Location     *string `json:"location"`
	IsReservable *bool   `json:"is_reservable"`
	Notes        *string `json:"notes"`
}

func (r *TableRequest) toModel() *models.RestaurantTable {
	table := &models.RestaurantTable{
		TableNumber:  r.TableNumber,
		TableName:    r.TableName,
		Capacity:     r.Capacity,
		Status:       models.TableStatus(r.Status),
		Type:         models.TableType(r.TableType),
		Location:     r.Location,
		IsReservable: true,
		Notes:        r.Notes,
		IsActive:     true,
	}
	if r.IsReservable != nil {
		table.IsReservable = *r.IsReservable
	}
	return table
}

type TableStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List godoc
// @Summary      List tables
// @Tags         tables
// @Produce      json
// @Param        status           query  string  false  "AVAILABLE, OCCUPIED, RESERVED, CLEANING or OUT_OF_SERVICE"
// @Param        table_type       query  string  false  "Table type"
// @Param        reservable_only  query  bool    false  "Only reservable tables"
// @Param        min_capacity     query  int     false  "Minimum seats"
// @Security     ApiKeyAuth
// @Router       /api/tables [get]
func (h *TableHandlers) List(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.TableFilter{}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseTableStatus(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("table_type"); raw != "" {
		tableType, err := models.ParseTableType(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Type = &tableType
	}
	reservable, err := queryBool(c, "reservable_only")
	if err != nil {
		return respondError(c, err)
	}
	filter.ReservableOnly = reservable != nil && *reservable
	if c.QueryParam("min_capacity") != "" {
		minCapacity, err := queryInt(c, "min_capacity", 0)
		if err != nil {
			return respondError(c, err)
		}
		filter.MinCapacity = &minCapacity
	}

	tables, err := h.tableService.List(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tables": tables})
}

// Available lists tables free to seat guests.
func (h *TableHandlers) Available(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	status := models.TableStatusAvailable
	tables, err := h.tableService.List(c.Request().Context(), tid, &models.TableFilter{Status: &status})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tables": tables})
}

func (h *TableHandlers) Create(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req TableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	table, err := h.tableService.Create(c.Request().Context(), tid, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, table)
}

func (h *TableHandlers) Get(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	table, err := h.tableService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHandlers) GetByNumber(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	table, err := h.tableService.GetByNumber(c.Request().Context(), tid, c.Param("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHandlers) Update(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req TableRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	table := req.toModel()
	table.ID = id
	updated, err := h.tableService.Update(c.Request().Context(), tid, table)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *TableHandlers) UpdateStatus(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req TableStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	table, err := h.tableService.UpdateStatus(c.Request().Context(), tid, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHandlers) Delete(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.tableService.Delete(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
