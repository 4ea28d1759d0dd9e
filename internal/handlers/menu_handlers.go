package handlers

import (
	"net/http"

	"checky/internal/common"
	"checky/internal/models"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const maxImageSize = 5 << 20

// MenuHandlers serves menu categories and menu items.
type MenuHandlers struct {
	menuService services.MenuService
}

func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

type CategoryRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (r *CategoryRequest) toModel() *models.MenuCategory {
	category := &models.MenuCategory{
		Name:         r.Name,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
		IsActive:     true,
	}
	if r.IsActive != nil {
		category.IsActive = *r.IsActive
	}
	return category
}

type MenuItemRequest struct {
	CategoryID      *uuid.UUID      `json:"category_id"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `json:"price"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsGlutenFree    bool            `json:"is_gluten_free"`
	IsSpicy         bool            `json:"is_spicy"`
	PreparationTime *int            `json:"preparation_time" validate:"omitempty,gte=0"`
	IsAvailable     *bool           `json:"is_available"`
	DisplayOrder    int             `json:"display_order" validate:"gte=0"`
}

func (r *MenuItemRequest) toModel() *models.MenuItem {
	item := &models.MenuItem{
		CategoryID:      r.CategoryID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		IsVegetarian:    r.IsVegetarian,
		IsGlutenFree:    r.IsGlutenFree,
		IsSpicy:         r.IsSpicy,
		PreparationTime: r.PreparationTime,
		IsAvailable:     true,
		DisplayOrder:    r.DisplayOrder,
		IsActive:        true,
	}
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
	return item
}

// ListCategories godoc
// @Summary      List menu categories
// @Tags         menu
// @Produce      json
// @Security     ApiKeyAuth
// @Router       /api/menu/categories [get]
func (h *MenuHandlers) ListCategories(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	categories, err := h.menuService.ListCategories(c.Request().Context(), tid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *MenuHandlers) CreateCategory(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.menuService.CreateCategory(c.Request().Context(), tid, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *MenuHandlers) GetCategory(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.menuService.GetCategory(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *MenuHandlers) UpdateCategory(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	category := req.toModel()
	category.ID = id
	updated, err := h.menuService.UpdateCategory(c.Request().Context(), tid, category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *MenuHandlers) DeleteCategory(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.menuService.DeleteCategory(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListItems godoc
// @Summary      List menu items
// @Tags         menu
// @Produce      json
// @Param        category_id     query  string  false  "Category"
// @Param        available_only  query  bool    false  "Only available items"
// @Param        vegetarian      query  bool    false  "Vegetarian filter"
// @Param        gluten_free     query  bool    false  "Gluten free filter"
// @Param        q               query  string  false  "Name search"
// @Param        limit           query  int     false  "Page size"
// @Param        offset          query  int     false  "Page offset"
// @Security     ApiKeyAuth
// @Router       /api/menu/items [get]
func (h *MenuHandlers) ListItems(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.MenuItemFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := common.ValidateUUID(raw, "category_id")
		if err != nil {
			return respondError(c, err)
		}
		filter.CategoryID = &categoryID
	}
	available, err := queryBool(c, "available_only")
	if err != nil {
		return respondError(c, err)
	}
	filter.AvailableOnly = available != nil && *available
	if filter.Vegetarian, err = queryBool(c, "vegetarian"); err != nil {
		return respondError(c, err)
	}
	if filter.GlutenFree, err = queryBool(c, "gluten_free"); err != nil {
		return respondError(c, err)
	}
	if filter.Limit, err = queryInt(c, "limit", 50); err != nil {
		return respondError(c, err)
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		return respondError(c, err)
	}

	items, err := h.menuService.ListItems(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *MenuHandlers) CreateItem(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req MenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.menuService.CreateItem(c.Request().Context(), tid, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandlers) GetItem(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.menuService.GetItem(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandlers) UpdateItem(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req MenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	item := req.toModel()
	item.ID = id
	updated, err := h.menuService.UpdateItem(c.Request().Context(), tid, item)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *MenuHandlers) DeleteItem(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.menuService.DeleteItem(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadItemImage godoc
// @Summary      Upload a menu item photo
// @Tags         menu
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Menu item ID"
// @Param        image  formData  file    true  "Image (jpeg, png or webp)"
// @Success      200    {object}  models.MenuItem
// @Security     ApiKeyAuth
// @Router       /api/menu/items/{id}/image [post]
func (h *MenuHandlers) UploadItemImage(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, common.Invalid("image file is required"))
	}
	if file.Size > maxImageSize {
		return respondError(c, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image exceeds 5MB"))
	}
	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	item, err := h.menuService.UploadItemImage(c.Request().Context(), tid, id, src, file.Size, file.Header.Get(echo.HeaderContentType))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandlers) ItemImageURL(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	url, err := h.menuService.ItemImageURL(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
