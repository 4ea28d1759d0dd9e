package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"checky/internal/common"
	"checky/internal/metrics"
	"checky/internal/models"
	"checky/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderReferenceType = "ORDER"

type RecipeService interface {
	Create(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Recipe, error)
	GetByMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.Recipe, error)
	Update(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, filter *models.RecipeFilter) ([]*models.Recipe, error)

	AddIngredient(ctx context.Context, tenantID, recipeID uuid.UUID, ingredient models.RecipeIngredient) (*models.Recipe, error)
	RemoveIngredient(ctx context.Context, tenantID, recipeID, ingredientID uuid.UUID) (*models.Recipe, error)
	AddInstruction(ctx context.Context, tenantID, recipeID uuid.UUID, instruction models.RecipeInstruction) (*models.Recipe, error)
	RemoveInstruction(ctx context.Context, tenantID, recipeID, instructionID uuid.UUID) (*models.Recipe, error)

	// ConsumeForOrderLine deducts the recipe's ingredients for qty servings of
	// a menu item. It never fails; each ingredient reports its own outcome.
	ConsumeForOrderLine(ctx context.Context, tenantID, menuItemID uuid.UUID, qty int) []models.ConsumptionOutcome
}

type recipeService struct {
	recipeRepo    repositories.RecipeRepository
	menuItemRepo  repositories.MenuItemRepository
	inventoryRepo repositories.InventoryRepository
	ledger        InventoryLedger
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	menuItemRepo repositories.MenuItemRepository,
	inventoryRepo repositories.InventoryRepository,
	ledger InventoryLedger,
	m *metrics.Metrics,
	logger *zap.Logger,
) RecipeService {
	return &recipeService{
		recipeRepo:    recipeRepo,
		menuItemRepo:  menuItemRepo,
		inventoryRepo: inventoryRepo,
		ledger:        ledger,
		metrics:       m,
		logger:        logger,
	}
}

func (s *recipeService) validateRecipe(recipe *models.Recipe) error {
	if err := common.ValidateRequiredString(recipe.Name, "name"); err != nil {
		return err
	}
	if recipe.ServingSize == 0 {
		recipe.ServingSize = 1
	}
	if recipe.ServingSize < 0 {
		return common.Invalid("serving_size must be positive")
	}
	if recipe.DifficultyLevel != nil {
		if _, err := models.ParseDifficultyLevel(string(*recipe.DifficultyLevel)); err != nil {
			return err
		}
	}
	return nil
}

func (s *recipeService) validateIngredient(ctx context.Context, tenantID uuid.UUID, ing *models.RecipeIngredient) error {
	if !ing.Quantity.IsPositive() {
		return common.Invalid("ingredient quantity must be greater than zero")
	}
	if err := common.ValidateRequiredString(ing.Unit, "unit"); err != nil {
		return err
	}
	if _, err := s.inventoryRepo.GetByID(ctx, tenantID, ing.InventoryItemID); err != nil {
		return err
	}
	return nil
}

func (s *recipeService) Create(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.validateRecipe(recipe); err != nil {
		return nil, err
	}
	if _, err := s.menuItemRepo.GetByID(ctx, tenantID, recipe.MenuItemID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(recipe.Ingredients))
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if seen[ing.InventoryItemID] {
			return nil, common.AlreadyExists("recipe ingredient", "inventory item "+ing.InventoryItemID.String())
		}
		seen[ing.InventoryItemID] = true
		if err := s.validateIngredient(ctx, tenantID, ing); err != nil {
			return nil, err
		}
	}
	if err := validateSteps(recipe.Instructions); err != nil {
		return nil, err
	}

	recipe.ID = uuid.New()
	recipe.TenantID = tenantID
	recipe.IsActive = true
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.Stringer("tenant_id", tenantID),
		zap.String("name", recipe.Name))
	return s.recipeRepo.GetByID(ctx, tenantID, recipe.ID)
}

func validateSteps(instructions []models.RecipeInstruction) error {
	steps := make(map[int]bool, len(instructions))
	for _, ins := range instructions {
		if ins.StepNumber <= 0 {
			return common.Invalid("step_number must be positive")
		}
		if err := common.ValidateRequiredString(ins.InstructionText, "instruction_text"); err != nil {
			return err
		}
		if steps[ins.StepNumber] {
			return common.AlreadyExists("recipe instruction", fmt.Sprintf("step %d", ins.StepNumber))
		}
		steps[ins.StepNumber] = true
	}
	return nil
}

func (s *recipeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, tenantID, id)
}

func (s *recipeService) GetByMenuItem(ctx context.Context, tenantID, menuItemID uuid.UUID) (*models.Recipe, error) {
	return s.recipeRepo.GetActiveByMenuItem(ctx, tenantID, menuItemID)
}

func (s *recipeService) Update(ctx context.Context, tenantID uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.validateRecipe(recipe); err != nil {
		return nil, err
	}
	recipe.TenantID = tenantID
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, tenantID, recipe.ID)
}

func (s *recipeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.recipeRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("recipe deactivated", zap.Stringer("tenant_id", tenantID), zap.Stringer("recipe_id", id))
	return nil
}

func (s *recipeService) List(ctx context.Context, tenantID uuid.UUID, filter *models.RecipeFilter) ([]*models.Recipe, error) {
	if filter != nil {
		filter.Query = common.SanitizeSearchQuery(filter.Query)
		if filter.CuisineType != nil {
			c := strings.ToUpper(strings.TrimSpace(*filter.CuisineType))
			filter.CuisineType = &c
		}
	}
	return s.recipeRepo.List(ctx, tenantID, filter)
}

func (s *recipeService) AddIngredient(ctx context.Context, tenantID, recipeID uuid.UUID, ingredient models.RecipeIngredient) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	for _, existing := range recipe.Ingredients {
		if existing.InventoryItemID == ingredient.InventoryItemID {
			return nil, common.AlreadyExists("recipe ingredient", "inventory item "+ingredient.InventoryItemID.String())
		}
	}
	if err := s.validateIngredient(ctx, tenantID, &ingredient); err != nil {
		return nil, err
	}

	ingredient.ID = uuid.New()
	if ingredient.DisplayOrder == 0 {
		ingredient.DisplayOrder = len(recipe.Ingredients) + 1
	}
	ingredients := append(recipe.Ingredients, ingredient)
	if err := s.recipeRepo.ReplaceIngredients(ctx, tenantID, recipeID, ingredients); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, tenantID, recipeID)
}

func (s *recipeService) RemoveIngredient(ctx context.Context, tenantID, recipeID, ingredientID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	kept := make([]models.RecipeIngredient, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		if ing.ID != ingredientID {
			kept = append(kept, ing)
		}
	}
	if len(kept) == len(recipe.Ingredients) {
		return nil, common.NotFound("recipe ingredient")
	}
	if err := s.recipeRepo.ReplaceIngredients(ctx, tenantID, recipeID, kept); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, tenantID, recipeID)
}

func (s *recipeService) AddInstruction(ctx context.Context, tenantID, recipeID uuid.UUID, instruction models.RecipeInstruction) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	if instruction.StepNumber == 0 {
		instruction.StepNumber = len(recipe.Instructions) + 1
	}
	instruction.ID = uuid.New()
	instructions := append(recipe.Instructions, instruction)
	if err := validateSteps(instructions); err != nil {
		return nil, err
	}
	sort.Slice(instructions, func(i, j int) bool { return instructions[i].StepNumber < instructions[j].StepNumber })

	if err := s.recipeRepo.ReplaceInstructions(ctx, tenantID, recipeID, instructions); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, tenantID, recipeID)
}

func (s *recipeService) RemoveInstruction(ctx context.Context, tenantID, recipeID, instructionID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	kept := make([]models.RecipeInstruction, 0, len(recipe.Instructions))
	for _, ins := range recipe.Instructions {
		if ins.ID != instructionID {
			kept = append(kept, ins)
		}
	}
	if len(kept) == len(recipe.Instructions) {
		return nil, common.NotFound("recipe instruction")
	}
	if err := s.recipeRepo.ReplaceInstructions(ctx, tenantID, recipeID, kept); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, tenantID, recipeID)
}

func (s *recipeService) ConsumeForOrderLine(ctx context.Context, tenantID, menuItemID uuid.UUID, qty int) []models.ConsumptionOutcome {
	if qty <= 0 {
		return nil
	}
	recipe, err := s.recipeRepo.GetActiveByMenuItem(ctx, tenantID, menuItemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Debug("no recipe for menu item, skipping inventory tracking",
				zap.Stringer("tenant_id", tenantID),
				zap.Stringer("menu_item_id", menuItemID))
		} else {
			s.logger.Error("failed to load recipe for inventory tracking",
				zap.Stringer("tenant_id", tenantID),
				zap.Stringer("menu_item_id", menuItemID),
				zap.Error(err))
		}
		return nil
	}

	notes := "Order consumption for " + recipe.Name
	refType := orderReferenceType
	servings := decimal.NewFromInt(int64(qty))

	outcomes := make([]models.ConsumptionOutcome, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		required := ing.Quantity.Mul(servings)
		outcome := models.ConsumptionOutcome{
			MenuItemID:      menuItemID,
			RecipeID:        recipe.ID,
			RecipeName:      recipe.Name,
			InventoryItemID: ing.InventoryItemID,
			Required:        required,
			Unit:            ing.Unit,
		}

		txn, err := s.ledger.StockOut(ctx, tenantID, ing.InventoryItemID, required, models.TransactionMetadata{
			NumberPrefix:  RecipeDeductionPrefix,
			ReferenceType: &refType,
			Notes:         &notes,
		})
		fields := []zap.Field{
			zap.Stringer("tenant_id", tenantID),
			zap.Stringer("inventory_item_id", ing.InventoryItemID),
			zap.String("recipe", recipe.Name),
			zap.String("required", required.String()),
		}
		switch {
		case err == nil:
			outcome.Status = models.ConsumptionConsumed
			outcome.Transaction = txn
			s.logger.Info("deducted recipe ingredient", fields...)
		case errors.Is(err, common.ErrNotFound):
			outcome.Status = models.ConsumptionSkippedMissingItem
			outcome.Error = err.Error()
			s.logger.Warn("inventory item not found for recipe ingredient", fields...)
		case errors.Is(err, common.ErrInsufficientStock):
			outcome.Status = models.ConsumptionSkippedInsufficientStock
			outcome.Error = err.Error()
			s.logger.Warn("insufficient stock for recipe ingredient", append(fields, zap.Error(err))...)
		default:
			outcome.Status = models.ConsumptionFailed
			outcome.Error = err.Error()
			s.logger.Error("failed to deduct recipe ingredient", append(fields, zap.Error(err))...)
		}
		s.metrics.RecordConsumption(string(outcome.Status))
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
