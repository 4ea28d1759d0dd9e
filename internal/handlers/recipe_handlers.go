package handlers

import (
	"net/http"

	"checky/internal/models"
	"checky/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type RecipeHandlers struct {
	recipeService services.RecipeService
}

func NewRecipeHandlers(recipeService services.RecipeService) *RecipeHandlers {
	return &RecipeHandlers{recipeService: recipeService}
}

type IngredientRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit" validate:"required,max=20"`
	DisplayOrder    int             `json:"display_order"`
	Notes           *string         `json:"notes"`
}

func (r IngredientRequest) toModel() models.RecipeIngredient {
	return models.RecipeIngredient{
		InventoryItemID: r.InventoryItemID,
		Quantity:        r.Quantity,
		Unit:            r.Unit,
		DisplayOrder:    r.DisplayOrder,
		Notes:           r.Notes,
	}
}

type InstructionRequest struct {
	StepNumber         int     `json:"step_number" validate:"required,gt=0"`
	InstructionText    string  `json:"instruction_text" validate:"required"`
	TimeMinutes        *int    `json:"time_minutes" validate:"omitempty,gte=0"`
	TemperatureCelsius *int    `json:"temperature_celsius"`
	Notes              *string `json:"notes"`
}

func (r InstructionRequest) toModel() models.RecipeInstruction {
	return models.RecipeInstruction{
		StepNumber:         r.StepNumber,
		InstructionText:    r.InstructionText,
		TimeMinutes:        r.TimeMinutes,
		TemperatureCelsius: r.TemperatureCelsius,
		Notes:              r.Notes,
	}
}

type RecipeRequest struct {
	MenuItemID      uuid.UUID            `json:"menu_item_id" validate:"required"`
	Name            string               `json:"name" validate:"required,max=200"`
	Description     *string              `json:"description"`
	ServingSize     int                  `json:"serving_size" validate:"gte=0"`
	PrepTimeMinutes *int                 `json:"prep_time_minutes" validate:"omitempty,gte=0"`
	CookTimeMinutes *int                 `json:"cook_time_minutes" validate:"omitempty,gte=0"`
	DifficultyLevel *string              `json:"difficulty_level"`
	CuisineTypes    []string             `json:"cuisine_types"`
	IsVegetarian    bool                 `json:"is_vegetarian"`
	IsGlutenFree    bool                 `json:"is_gluten_free"`
	IsSpicy         bool                 `json:"is_spicy"`
	Notes           *string              `json:"notes"`
	Ingredients     []IngredientRequest  `json:"ingredients" validate:"dive"`
	Instructions    []InstructionRequest `json:"instructions" validate:"dive"`
}

func (r *RecipeRequest) toModel() *models.Recipe {
	recipe := &models.Recipe{
		MenuItemID:      r.MenuItemID,
		Name:            r.Name,
		Description:     r.Description,
		ServingSize:     r.ServingSize,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		CuisineTypes:    r.CuisineTypes,
		IsVegetarian:    r.IsVegetarian,
		IsGlutenFree:    r.IsGlutenFree,
		IsSpicy:         r.IsSpicy,
		Notes:           r.Notes,
	}
	if r.DifficultyLevel != nil {
		level := models.DifficultyLevel(*r.DifficultyLevel)
		recipe.DifficultyLevel = &level
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, ing.toModel())
	}
	for _, ins := range r.Instructions {
		recipe.Instructions = append(recipe.Instructions, ins.toModel())
	}
	return recipe
}

// ConsumeRequest asks for the ingredients of qty servings to be deducted.
type ConsumeRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

func (h *RecipeHandlers) List(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.RecipeFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("cuisine_type"); raw != "" {
		filter.CuisineType = &raw
	}
	if raw := c.QueryParam("difficulty_level"); raw != "" {
		level, err := models.ParseDifficultyLevel(raw)
		if err != nil {
			return respondError(c, err)
		}
		filter.Difficulty = &level
	}
	if filter.Vegetarian, err = queryBool(c, "vegetarian"); err != nil {
		return respondError(c, err)
	}
	if filter.GlutenFree, err = queryBool(c, "gluten_free"); err != nil {
		return respondError(c, err)
	}
	recipes, err := h.recipeService.List(c.Request().Context(), tid, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// Create godoc
// @Summary      Create a recipe for a menu item
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        body  body      RecipeRequest  true  "Recipe with ingredients and steps"
// @Success      201   {object}  models.Recipe
// @Security     ApiKeyAuth
// @Router       /api/recipes [post]
func (h *RecipeHandlers) Create(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.Create(c.Request().Context(), tid, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandlers) Get(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandlers) GetByMenuItem(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	menuItemID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.GetByMenuItem(c.Request().Context(), tid, menuItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// Update changes the recipe header. Ingredients and steps have their own
// endpoints.
func (h *RecipeHandlers) Update(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe := req.toModel()
	recipe.ID = id
	recipe.Ingredients, recipe.Instructions = nil, nil
	updated, err := h.recipeService.Update(c.Request().Context(), tid, recipe)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandlers) Delete(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.recipeService.Delete(c.Request().Context(), tid, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecipeHandlers) AddIngredient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req IngredientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.AddIngredient(c.Request().Context(), tid, id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandlers) RemoveIngredient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ingredientID, err := pathID(c, "ingredient_id")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.RemoveIngredient(c.Request().Context(), tid, id, ingredientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandlers) AddInstruction(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req InstructionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.AddInstruction(c.Request().Context(), tid, id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandlers) RemoveInstruction(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	instructionID, err := pathID(c, "instruction_id")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.RemoveInstruction(c.Request().Context(), tid, id, instructionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// Consume godoc
// @Summary      Deduct recipe ingredients for servings sold outside an order
// @Description  Best effort: each ingredient reports CONSUMED, SKIPPED_MISSING_ITEM, SKIPPED_INSUFFICIENT_STOCK or FAILED.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        body  body  ConsumeRequest  true  "Menu item and servings"
// @Security     ApiKeyAuth
// @Router       /api/recipes/track-inventory [post]
func (h *RecipeHandlers) Consume(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ConsumeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	outcomes := h.recipeService.ConsumeForOrderLine(c.Request().Context(), tid, req.MenuItemID, req.Quantity)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"menu_item_id":          req.MenuItemID,
		"quantity":              req.Quantity,
		"inventory_consumption": outcomes,
	})
}
