package handlers

import (
	"net/http"
	"time"

	"checky/internal/services"

	"github.com/labstack/echo/v4"
)

// RestaurantHandlers serves the current restaurant's profile and the admin
// restaurant endpoints.
type RestaurantHandlers struct {
	restaurantService services.RestaurantService
	apiKeyService     services.ApiKeyService
}

func NewRestaurantHandlers(restaurantService services.RestaurantService, apiKeyService services.ApiKeyService) *RestaurantHandlers {
	return &RestaurantHandlers{restaurantService: restaurantService, apiKeyService: apiKeyService}
}

// GetCurrent godoc
// @Summary      Current restaurant
// @Tags         restaurant
// @Produce      json
// @Success      200  {object}  models.Restaurant
// @Security     ApiKeyAuth
// @Router       /api/restaurant [get]
func (h *RestaurantHandlers) GetCurrent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	restaurant, err := h.restaurantService.GetByID(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

// UpdateCurrent godoc
// @Summary      Update restaurant profile
// @Tags         restaurant
// @Accept       json
// @Produce      json
// @Param        body  body      services.RestaurantRequest  true  "Profile"
// @Success      200   {object}  models.Restaurant
// @Security     ApiKeyAuth
// @Router       /api/restaurant [put]
func (h *RestaurantHandlers) UpdateCurrent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req services.RestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	restaurant, err := h.restaurantService.Update(c.Request().Context(), tid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandlers) Create(c echo.Context) error {
	var req services.RestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	restaurant, err := h.restaurantService.Create(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, restaurant)
}

func (h *RestaurantHandlers) List(c echo.Context) error {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return respondError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, err)
	}
	restaurants, err := h.restaurantService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *RestaurantHandlers) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	restaurant, err := h.restaurantService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandlers) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.restaurantService.Deactivate(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateAPIKeyRequest is the body for issuing a key.
type CreateAPIKeyRequest struct {
	Description *string    `json:"description" validate:"omitempty,max=255"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// IssueAPIKey creates a key for any restaurant (admin).
func (h *RestaurantHandlers) IssueAPIKey(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req CreateAPIKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()
	if _, err := h.restaurantService.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	key, err := h.apiKeyService.Create(ctx, id, req.Description, req.ExpiresAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, key)
}
