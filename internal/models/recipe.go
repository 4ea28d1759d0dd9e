package models

import (
	"fmt"
	"strings"
	"time"

	"checky/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyMedium DifficultyLevel = "MEDIUM"
	DifficultyHard   DifficultyLevel = "HARD"
)

func DifficultyLevels() []DifficultyLevel {
	return []DifficultyLevel{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

func ParseDifficultyLevel(s string) (DifficultyLevel, error) {
	d := DifficultyLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty level %q", common.ErrInvalidEnumValue, s)
}

// Recipe is the bill of materials of exactly one menu item.
type Recipe struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	TenantID        uuid.UUID           `json:"tenant_id" db:"tenant_id"`
	MenuItemID      uuid.UUID           `json:"menu_item_id" db:"menu_item_id"`
	Name            string              `json:"name" db:"name"`
	Description     *string             `json:"description" db:"description"`
	ServingSize     int                 `json:"serving_size" db:"serving_size"`
	PrepTimeMinutes *int                `json:"prep_time_minutes" db:"prep_time_minutes"`
	CookTimeMinutes *int                `json:"cook_time_minutes" db:"cook_time_minutes"`
	DifficultyLevel *DifficultyLevel    `json:"difficulty_level" db:"difficulty_level"`
	CuisineTypes    []string            `json:"cuisine_types" db:"cuisine_types"`
	IsVegetarian    bool                `json:"is_vegetarian" db:"is_vegetarian"`
	IsGlutenFree    bool                `json:"is_gluten_free" db:"is_gluten_free"`
	IsSpicy         bool                `json:"is_spicy" db:"is_spicy"`
	Notes           *string             `json:"notes" db:"notes"`
	IsActive        bool                `json:"is_active" db:"is_active"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
	Ingredients     []RecipeIngredient  `json:"ingredients,omitempty" db:"-"`
	Instructions    []RecipeInstruction `json:"instructions,omitempty" db:"-"`
}

type RecipeIngredient struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	RecipeID        uuid.UUID       `json:"recipe_id" db:"recipe_id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id" db:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"` // per serving
	Unit            string          `json:"unit" db:"unit"`
	DisplayOrder    int             `json:"display_order" db:"display_order"`
	Notes           *string         `json:"notes" db:"notes"`
}

type RecipeInstruction struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	TenantID           uuid.UUID `json:"tenant_id" db:"tenant_id"`
	RecipeID           uuid.UUID `json:"recipe_id" db:"recipe_id"`
	StepNumber         int       `json:"step_number" db:"step_number"`
	InstructionText    string    `json:"instruction_text" db:"instruction_text"`
	TimeMinutes        *int      `json:"time_minutes" db:"time_minutes"`
	TemperatureCelsius *int      `json:"temperature_celsius" db:"temperature_celsius"`
	Notes              *string   `json:"notes" db:"notes"`
}

// RecipeFilter holds list criteria for recipes
type RecipeFilter struct {
	CuisineType *string          `json:"cuisine_type,omitempty"`
	Difficulty  *DifficultyLevel `json:"difficulty_level,omitempty"`
	Vegetarian  *bool            `json:"vegetarian,omitempty"`
	GlutenFree  *bool            `json:"gluten_free,omitempty"`
	Query       string           `json:"query,omitempty"`
}
