package handlers

import (
	"net/http"

	"checky/internal/services"

	"github.com/labstack/echo/v4"
)

type ApiKeyHandlers struct {
	apiKeyService services.ApiKeyService
}

func NewApiKeyHandlers(apiKeyService services.ApiKeyService) *ApiKeyHandlers {
	return &ApiKeyHandlers{apiKeyService: apiKeyService}
}

// Create godoc
// @Summary      Issue an API key for the current restaurant
// @Description  The plain key is only returned by this call.
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Param        body  body      CreateAPIKeyRequest  true  "Key options"
// @Success      201   {object}  models.ApiKey
// @Security     ApiKeyAuth
// @Router       /api/api-keys [post]
func (h *ApiKeyHandlers) Create(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateAPIKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	key, err := h.apiKeyService.Create(c.Request().Context(), tid, req.Description, req.ExpiresAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, key)
}

func (h *ApiKeyHandlers) List(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	keys, err := h.apiKeyService.List(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"api_keys": keys})
}

func (h *ApiKeyHandlers) Deactivate(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.apiKeyService.Deactivate(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
