package recipe

import (
	"context"
	"errors"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/entities"
	"recipenow-backend/pkg/fieldpath"
	"recipenow-backend/pkg/normalize"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipeByID(ctx context.Context, id string, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, userID string, status, tag, query string, page, limit int) ([]domain.RecipeResponse, int64, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error
		VerifyRecipe(ctx context.Context, id string, userID string) (domain.VerifyRecipeResponse, error)
		GetSourceSpans(ctx context.Context, id string, userID string, fieldPrefix string) ([]domain.SourceSpanResponse, error)
		GetFieldStatuses(ctx context.Context, id string, userID string) ([]domain.FieldStatusResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
	}
)

func NewRecipeService(recipeRepository RecipeRepository) RecipeService {
	return &recipeService{recipeRepository: recipeRepository}
}

// EvaluateGate returns the verification violations for a recipe. An empty
// slice means the gate passes. Violations are data, not errors.
func EvaluateGate(recipe *entities.Recipe) []string {
	violations := make([]string, 0, 3)
	if strings.TrimSpace(recipe.Title) == "" {
		violations = append(violations, domain.ViolationTitleRequired)
	}
	if len(recipe.Ingredients) == 0 {
		violations = append(violations, domain.ViolationIngredientRequired)
	}
	if len(recipe.Steps) == 0 {
		violations = append(violations, domain.ViolationStepRequired)
	}
	return violations
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		UserID:      userUUID,
		Title:       req.Title,
		Servings:    req.Servings,
		Ingredients: datatypes.NewJSONSlice(buildIngredients(req.Ingredients)),
		Steps:       datatypes.NewJSONSlice(buildSteps(req.Steps)),
		Tags:        datatypes.NewJSONSlice(normalizeTags(req.Tags)),
		Nutrition:   req.Nutrition,
		Status:      entities.RecipeStatusDraft,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	// Everything the user typed is user_entered; typed values need no
	// visual evidence.
	for _, path := range userEnteredPaths(recipe) {
		if err := s.upsertStatus(ctx, recipe.ID, path, entities.FieldStatusUserEntered); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return toRecipeResponse(recipe), nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, userID string, status, tag, query string, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, userID, status, tag, query, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, toRecipeResponse(recipe))
	}
	return responses, count, nil
}

// UpdateRecipe applies a partial edit. Each edited field becomes
// user_entered, and editing a verified recipe downgrades it to needs_review
// so a verified status never stands on unreviewed data.
func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	var editedPaths []fieldpath.Path

	if req.Title != nil {
		recipe.Title = *req.Title
		editedPaths = append(editedPaths, fieldpath.Title())
	}
	if req.Servings != nil {
		recipe.Servings = req.Servings
		recipe.ServingsEstimate = nil
		editedPaths = append(editedPaths, fieldpath.Servings())
	}
	if req.Times != nil {
		recipe.Times = req.Times
		editedPaths = append(editedPaths, fieldpath.Times())
	}
	if req.Ingredients != nil {
		recipe.Ingredients = datatypes.NewJSONSlice(buildIngredients(*req.Ingredients))
		if err := s.recipeRepository.DeleteFieldStatusesByPrefix(ctx, recipe.ID, "ingredients"); err != nil {
			return domain.RecipeResponse{}, err
		}
		for i := range recipe.Ingredients {
			editedPaths = append(editedPaths, fieldpath.Ingredient(i, fieldpath.SubOriginalText))
		}
	}
	if req.Steps != nil {
		recipe.Steps = datatypes.NewJSONSlice(buildSteps(*req.Steps))
		if err := s.recipeRepository.DeleteFieldStatusesByPrefix(ctx, recipe.ID, "steps"); err != nil {
			return domain.RecipeResponse{}, err
		}
		for i := range recipe.Steps {
			editedPaths = append(editedPaths, fieldpath.Step(i))
		}
	}
	if req.Tags != nil {
		recipe.Tags = datatypes.NewJSONSlice(normalizeTags(*req.Tags))
		editedPaths = append(editedPaths, fieldpath.Tags())
	}
	if req.Nutrition != nil {
		recipe.Nutrition = req.Nutrition
		editedPaths = append(editedPaths, fieldpath.Nutrition())
	}

	if len(editedPaths) == 0 {
		return toRecipeResponse(recipe), nil
	}

	if recipe.Status == entities.RecipeStatusVerified {
		recipe.Status = entities.RecipeStatusNeedsReview
	}

	if err := s.recipeRepository.SaveRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	for _, path := range editedPaths {
		if err := s.upsertStatus(ctx, recipe.ID, path, entities.FieldStatusUserEntered); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return toRecipeResponse(recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipe)
}

// VerifyRecipe evaluates the gate. On pass the recipe becomes verified and
// every extracted field status is promoted with it; on failure the
// violations are returned and nothing changes.
func (s *recipeService) VerifyRecipe(ctx context.Context, id string, userID string) (domain.VerifyRecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return domain.VerifyRecipeResponse{}, err
	}

	violations := EvaluateGate(recipe)
	if len(violations) > 0 {
		return domain.VerifyRecipeResponse{
			RecipeID: recipe.ID.String(),
			Status:   recipe.Status,
			Errors:   violations,
		}, nil
	}

	recipe.Status = entities.RecipeStatusVerified
	if err := s.recipeRepository.SaveRecipe(ctx, recipe); err != nil {
		return domain.VerifyRecipeResponse{}, err
	}
	if err := s.recipeRepository.PromoteExtractedStatuses(ctx, recipe.ID); err != nil {
		return domain.VerifyRecipeResponse{}, err
	}

	return domain.VerifyRecipeResponse{
		RecipeID: recipe.ID.String(),
		Status:   recipe.Status,
		Errors:   []string{},
	}, nil
}

func (s *recipeService) GetSourceSpans(ctx context.Context, id string, userID string, fieldPrefix string) ([]domain.SourceSpanResponse, error) {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	spans, err := s.recipeRepository.GetSourceSpans(ctx, recipe.ID.String(), fieldPrefix)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.SourceSpanResponse, 0, len(spans))
	for _, span := range spans {
		responses = append(responses, domain.SourceSpanResponse{
			FieldPath:     span.FieldPath,
			AssetID:       span.AssetID.String(),
			Page:          span.Page,
			BBox:          span.BBox,
			OCRConfidence: span.OCRConfidence,
			ExtractedText: span.ExtractedText,
			SourceMethod:  span.SourceMethod,
			CreatedAt:     span.CreatedAt,
		})
	}
	return responses, nil
}

func (s *recipeService) GetFieldStatuses(ctx context.Context, id string, userID string) ([]domain.FieldStatusResponse, error) {
	recipe, err := s.ownedRecipe(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.recipeRepository.GetFieldStatuses(ctx, recipe.ID.String())
	if err != nil {
		return nil, err
	}

	responses := make([]domain.FieldStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		responses = append(responses, domain.FieldStatusResponse{
			FieldPath: status.FieldPath,
			Status:    status.Status,
			Notes:     status.Notes,
		})
	}
	return responses, nil
}

func (s *recipeService) ownedRecipe(ctx context.Context, id string, userID string) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return recipe, nil
}

func (s *recipeService) upsertStatus(ctx context.Context, recipeID uuid.UUID, path fieldpath.Path, status string) error {
	return s.recipeRepository.UpsertFieldStatus(ctx, &entities.FieldStatus{
		ID:        uuid.New(),
		RecipeID:  recipeID,
		FieldPath: path.String(),
		Status:    status,
	})
}

func userEnteredPaths(recipe *entities.Recipe) []fieldpath.Path {
	var paths []fieldpath.Path
	if strings.TrimSpace(recipe.Title) != "" {
		paths = append(paths, fieldpath.Title())
	}
	if recipe.Servings != nil {
		paths = append(paths, fieldpath.Servings())
	}
	for i := range recipe.Ingredients {
		paths = append(paths, fieldpath.Ingredient(i, fieldpath.SubOriginalText))
	}
	for i := range recipe.Steps {
		paths = append(paths, fieldpath.Step(i))
	}
	if len(recipe.Tags) > 0 {
		paths = append(paths, fieldpath.Tags())
	}
	if recipe.Nutrition != nil {
		paths = append(paths, fieldpath.Nutrition())
	}
	return paths
}

// buildIngredients derives the structured fields the request leaves out.
// The typed text always survives verbatim; quantity and unit are parsed
// only when the caller did not set them.
func buildIngredients(reqs []domain.IngredientRequest) []entities.Ingredient {
	ingredients := make([]entities.Ingredient, 0, len(reqs))
	for _, req := range reqs {
		ingredient := entities.Ingredient{
			OriginalText: req.OriginalText,
			NameNorm:     normalize.Name(req.OriginalText),
			Quantity:     req.Quantity,
			Unit:         req.Unit,
			Optional:     req.Optional,
		}
		if ingredient.Quantity == nil && ingredient.Unit == nil {
			ingredient.Quantity, ingredient.Unit = normalize.Quantity(req.OriginalText)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients
}

func buildSteps(reqs []domain.StepRequest) []entities.Step {
	steps := make([]entities.Step, 0, len(reqs))
	for _, req := range reqs {
		steps = append(steps, entities.Step{Text: req.Text})
	}
	return steps
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(strings.TrimSpace(tag))
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		cleaned = append(cleaned, lower)
	}
	return cleaned
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Title:            recipe.Title,
		Servings:         recipe.Servings,
		ServingsEstimate: recipe.ServingsEstimate,
		Times:            recipe.Times,
		Ingredients:      recipe.Ingredients,
		Steps:            recipe.Steps,
		Tags:             recipe.Tags,
		Nutrition:        recipe.Nutrition,
		Status:           recipe.Status,
		CreatedAt:        recipe.CreatedAt,
		UpdatedAt:        recipe.UpdatedAt,
	}
}
