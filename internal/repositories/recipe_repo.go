package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Recipe, error)
	GetActiveByMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.RecipeFilter) ([]*models.Recipe, error)
	ReplaceIngredients(ctx context.Context, tenantID, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error
	ReplaceInstructions(ctx context.Context, tenantID, recipeID uuid.UUID, instructions []models.RecipeInstruction) error
}

type recipeRepo struct {
	db database.DB
}

func NewRecipeRepo(db database.DB) RecipeRepository {
	return &recipeRepo{db: db}
}

const recipeColumns = `id, tenant_id, menu_item_id, name, description, serving_size, prep_time_minutes,
		cook_time_minutes, difficulty_level, cuisine_types, is_vegetarian, is_gluten_free, is_spicy, notes,
		is_active, created_at, updated_at`

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	r := &models.Recipe{}
	err := row.Scan(&r.ID, &r.TenantID, &r.MenuItemID, &r.Name, &r.Description, &r.ServingSize, &r.PrepTimeMinutes,
		&r.CookTimeMinutes, &r.DifficultyLevel, &r.CuisineTypes, &r.IsVegetarian, &r.IsGlutenFree, &r.IsSpicy,
		&r.Notes, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create stores the recipe with its ingredients and instructions atomically.
func (r *recipeRepo) Create(ctx context.Context, recipe *models.Recipe) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if recipe.CuisineTypes == nil {
		recipe.CuisineTypes = []string{}
	}
	query := `
		INSERT INTO recipes (id, tenant_id, menu_item_id, name, description, serving_size, prep_time_minutes,
			cook_time_minutes, difficulty_level, cuisine_types, is_vegetarian, is_gluten_free, is_spicy, notes,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, TRUE, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, recipe.ID, recipe.TenantID, recipe.MenuItemID, recipe.Name, recipe.Description,
		recipe.ServingSize, recipe.PrepTimeMinutes, recipe.CookTimeMinutes, recipe.DifficultyLevel,
		recipe.CuisineTypes, recipe.IsVegetarian, recipe.IsGlutenFree, recipe.IsSpicy, recipe.Notes)
	if err != nil {
		return translateErr("recipe", err)
	}

	if err := insertIngredients(ctx, tx, recipe.TenantID, recipe.ID, recipe.Ingredients); err != nil {
		return err
	}
	if err := insertInstructions(ctx, tx, recipe.TenantID, recipe.ID, recipe.Instructions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *recipeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
	`
	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("recipe", err)
	}
	if err := r.loadDetails(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetActiveByMenuItem returns the recipe that drives consumption for a menu item.
func (r *recipeRepo) GetActiveByMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes
		WHERE tenant_id = $1 AND menu_item_id = $2 AND is_active = TRUE
	`
	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, tenantID, menuItemID))
	if err != nil {
		return nil, translateErr("recipe", err)
	}
	ingredients, err := listIngredients(ctx, r.db, tenantID, recipe.ID)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = ingredients
	return recipe, nil
}

func (r *recipeRepo) loadDetails(ctx context.Context, recipe *models.Recipe) error {
	ingredients, err := listIngredients(ctx, r.db, recipe.TenantID, recipe.ID)
	if err != nil {
		return err
	}
	instructions, err := listInstructions(ctx, r.db, recipe.TenantID, recipe.ID)
	if err != nil {
		return err
	}
	recipe.Ingredients = ingredients
	recipe.Instructions = instructions
	return nil
}

func (r *recipeRepo) Update(ctx context.Context, recipe *models.Recipe) error {
	if recipe.CuisineTypes == nil {
		recipe.CuisineTypes = []string{}
	}
	query := `
		UPDATE recipes
		SET name = $1, description = $2, serving_size = $3, prep_time_minutes = $4, cook_time_minutes = $5,
			difficulty_level = $6, cuisine_types = $7, is_vegetarian = $8, is_gluten_free = $9, is_spicy = $10,
			notes = $11, updated_at = NOW()
		WHERE tenant_id = $12 AND id = $13 AND is_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query, recipe.Name, recipe.Description, recipe.ServingSize, recipe.PrepTimeMinutes,
		recipe.CookTimeMinutes, recipe.DifficultyLevel, recipe.CuisineTypes, recipe.IsVegetarian,
		recipe.IsGlutenFree, recipe.IsSpicy, recipe.Notes, recipe.TenantID, recipe.ID)
	if err != nil {
		return translateErr("recipe", err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr("recipe", errNoRows)
	}
	return nil
}

func (r *recipeRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE recipes SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("recipe", errNoRows)
	}
	return nil
}

// List returns recipe headers without ingredients or instructions.
func (r *recipeRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.RecipeFilter) ([]*models.Recipe, error) {
	if filter == nil {
		filter = &models.RecipeFilter{}
	}

	query := `SELECT ` + recipeColumns + `
		FROM recipes
		WHERE tenant_id = $1 AND is_active = TRUE`
	args := []interface{}{tenantID}
	n := 1

	if filter.CuisineType != nil {
		n++
		query += fmt.Sprintf(` AND $%d = ANY(cuisine_types)`, n)
		args = append(args, *filter.CuisineType)
	}
	if filter.Difficulty != nil {
		n++
		query += fmt.Sprintf(` AND difficulty_level = $%d`, n)
		args = append(args, *filter.Difficulty)
	}
	if filter.Vegetarian != nil {
		n++
		query += fmt.Sprintf(` AND is_vegetarian = $%d`, n)
		args = append(args, *filter.Vegetarian)
	}
	if filter.GlutenFree != nil {
		n++
		query += fmt.Sprintf(` AND is_gluten_free = $%d`, n)
		args = append(args, *filter.GlutenFree)
	}
	if filter.Query != "" {
		n++
		query += fmt.Sprintf(` AND name ILIKE $%d`, n)
		args = append(args, likePattern(filter.Query))
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (r *recipeRepo) ReplaceIngredients(ctx context.Context, tenantID, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE tenant_id = $1 AND recipe_id = $2`, tenantID, recipeID); err != nil {
		return err
	}
	if err := insertIngredients(ctx, tx, tenantID, recipeID, ingredients); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE recipes SET updated_at = NOW() WHERE tenant_id = $1 AND id = $2`, tenantID, recipeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *recipeRepo) ReplaceInstructions(ctx context.Context, tenantID, recipeID uuid.UUID, instructions []models.RecipeInstruction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_instructions WHERE tenant_id = $1 AND recipe_id = $2`, tenantID, recipeID); err != nil {
		return err
	}
	if err := insertInstructions(ctx, tx, tenantID, recipeID, instructions); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE recipes SET updated_at = NOW() WHERE tenant_id = $1 AND id = $2`, tenantID, recipeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertIngredients(ctx context.Context, db database.DB, tenantID, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error {
	query := `
		INSERT INTO recipe_ingredients (id, tenant_id, recipe_id, inventory_item_id, quantity, unit, display_order, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range ingredients {
		ing := &ingredients[i]
		if ing.ID == uuid.Nil {
			ing.ID = uuid.New()
		}
		ing.TenantID = tenantID
		ing.RecipeID = recipeID
		if _, err := db.Exec(ctx, query, ing.ID, tenantID, recipeID, ing.InventoryItemID, ing.Quantity, ing.Unit,
			ing.DisplayOrder, ing.Notes); err != nil {
			return translateErr("recipe ingredient", err)
		}
	}
	return nil
}

func insertInstructions(ctx context.Context, db database.DB, tenantID, recipeID uuid.UUID, instructions []models.RecipeInstruction) error {
	query := `
		INSERT INTO recipe_instructions (id, tenant_id, recipe_id, step_number, instruction_text, time_minutes,
			temperature_celsius, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range instructions {
		ins := &instructions[i]
		if ins.ID == uuid.Nil {
			ins.ID = uuid.New()
		}
		ins.TenantID = tenantID
		ins.RecipeID = recipeID
		if _, err := db.Exec(ctx, query, ins.ID, tenantID, recipeID, ins.StepNumber, ins.InstructionText,
			ins.TimeMinutes, ins.TemperatureCelsius, ins.Notes); err != nil {
			return translateErr("recipe instruction", err)
		}
	}
	return nil
}

func listIngredients(ctx context.Context, db database.DB, tenantID, recipeID uuid.UUID) ([]models.RecipeIngredient, error) {
	query := `
		SELECT id, tenant_id, recipe_id, inventory_item_id, quantity, unit, display_order, notes
		FROM recipe_ingredients
		WHERE tenant_id = $1 AND recipe_id = $2
		ORDER BY display_order, id
	`
	rows, err := db.Query(ctx, query, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []models.RecipeIngredient
	for rows.Next() {
		var ing models.RecipeIngredient
		if err := rows.Scan(&ing.ID, &ing.TenantID, &ing.RecipeID, &ing.InventoryItemID, &ing.Quantity, &ing.Unit,
			&ing.DisplayOrder, &ing.Notes); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func listInstructions(ctx context.Context, db database.DB, tenantID, recipeID uuid.UUID) ([]models.RecipeInstruction, error) {
	query := `
		SELECT id, tenant_id, recipe_id, step_number, instruction_text, time_minutes, temperature_celsius, notes
		FROM recipe_instructions
		WHERE tenant_id = $1 AND recipe_id = $2
		ORDER BY step_number
	`
	rows, err := db.Query(ctx, query, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructions []models.RecipeInstruction
	for rows.Next() {
		var ins models.RecipeInstruction
		if err := rows.Scan(&ins.ID, &ins.TenantID, &ins.RecipeID, &ins.StepNumber, &ins.InstructionText,
			&ins.TimeMinutes, &ins.TemperatureCelsius, &ins.Notes); err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}
	return instructions, rows.Err()
}
