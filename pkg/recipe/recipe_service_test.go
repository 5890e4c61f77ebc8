package recipe

import (
	"context"
	"strings"
	"testing"

	"recipenow-backend/domain"
	"recipenow-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeRecipeRepository keeps recipes and field statuses in memory so the
// service logic can be exercised without a database.
type fakeRecipeRepository struct {
	recipes  map[string]*entities.Recipe
	statuses map[string]*entities.FieldStatus
	spans    []*entities.SourceSpan
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{
		recipes:  make(map[string]*entities.Recipe),
		statuses: make(map[string]*entities.FieldStatus),
	}
}

func statusKey(recipeID uuid.UUID, fieldPath string) string {
	return recipeID.String() + "|" + fieldPath
}

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, userID string, status, tag, query string, page, limit int) ([]*entities.Recipe, int64, error) {
	var out []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() != userID {
			continue
		}
		if status != "" && status != "all" && recipe.Status != status {
			continue
		}
		out = append(out, recipe)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecipeRepository) SaveRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, recipe *entities.Recipe) error {
	delete(f.recipes, recipe.ID.String())
	return nil
}

func (f *fakeRecipeRepository) GetSourceSpans(_ context.Context, recipeID string, fieldPrefix string) ([]*entities.SourceSpan, error) {
	var out []*entities.SourceSpan
	for _, span := range f.spans {
		if span.RecipeID.String() != recipeID {
			continue
		}
		if fieldPrefix != "" && !strings.HasPrefix(span.FieldPath, fieldPrefix) {
			continue
		}
		out = append(out, span)
	}
	return out, nil
}

func (f *fakeRecipeRepository) GetFieldStatuses(_ context.Context, recipeID string) ([]*entities.FieldStatus, error) {
	var out []*entities.FieldStatus
	for _, status := range f.statuses {
		if status.RecipeID.String() == recipeID {
			out = append(out, status)
		}
	}
	return out, nil
}

func (f *fakeRecipeRepository) UpsertFieldStatus(_ context.Context, status *entities.FieldStatus) error {
	key := statusKey(status.RecipeID, status.FieldPath)
	if existing, ok := f.statuses[key]; ok {
		existing.Status = status.Status
		existing.Notes = status.Notes
		return nil
	}
	f.statuses[key] = status
	return nil
}

func (f *fakeRecipeRepository) DeleteFieldStatusesByPrefix(_ context.Context, recipeID uuid.UUID, prefix string) error {
	for key, status := range f.statuses {
		if status.RecipeID == recipeID && strings.HasPrefix(status.FieldPath, prefix) {
			delete(f.statuses, key)
		}
	}
	return nil
}

func (f *fakeRecipeRepository) PromoteExtractedStatuses(_ context.Context, recipeID uuid.UUID) error {
	for _, status := range f.statuses {
		if status.RecipeID == recipeID && status.Status == entities.FieldStatusExtracted {
			status.Status = entities.FieldStatusVerified
		}
	}
	return nil
}

func (f *fakeRecipeRepository) fieldStatus(recipeID uuid.UUID, fieldPath string) (string, bool) {
	status, ok := f.statuses[statusKey(recipeID, fieldPath)]
	if !ok {
		return "", false
	}
	return status.Status, true
}

func seedRecipe(repo *fakeRecipeRepository, userID uuid.UUID, status string) *entities.Recipe {
	recipe := &entities.Recipe{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "Tomato Soup",
		Ingredients: datatypes.NewJSONSlice([]entities.Ingredient{
			{OriginalText: "2 tomatoes", NameNorm: "tomato"},
		}),
		Steps:  datatypes.NewJSONSlice([]entities.Step{{Text: "Simmer everything."}}),
		Status: status,
	}
	repo.recipes[recipe.ID.String()] = recipe
	return recipe
}

func TestEvaluateGate(t *testing.T) {
	empty := &entities.Recipe{}
	violations := EvaluateGate(empty)
	assert.Equal(t, []string{
		domain.ViolationTitleRequired,
		domain.ViolationIngredientRequired,
		domain.ViolationStepRequired,
	}, violations)

	whitespaceTitle := &entities.Recipe{
		Title:       "   ",
		Ingredients: datatypes.NewJSONSlice([]entities.Ingredient{{OriginalText: "1 onion"}}),
		Steps:       datatypes.NewJSONSlice([]entities.Step{{Text: "Chop."}}),
	}
	assert.Equal(t, []string{domain.ViolationTitleRequired}, EvaluateGate(whitespaceTitle))

	complete := &entities.Recipe{
		Title:       "Soup",
		Ingredients: datatypes.NewJSONSlice([]entities.Ingredient{{OriginalText: "1 onion"}}),
		Steps:       datatypes.NewJSONSlice([]entities.Step{{Text: "Chop."}}),
	}
	assert.Empty(t, EvaluateGate(complete))
}

func TestCreateRecipeMarksFieldsUserEntered(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()

	servings := 4
	res, err := service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Title:    "Garlic Bread",
		Servings: &servings,
		Ingredients: []domain.IngredientRequest{
			{OriginalText: "1 baguette"},
			{OriginalText: "2 tbsp butter"},
		},
		Steps: []domain.StepRequest{{Text: "Toast the bread."}},
		Tags:  []string{"Snack", "snack", "easy"},
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, entities.RecipeStatusDraft, res.Status)
	assert.Equal(t, []string{"snack", "easy"}, res.Tags)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "baguette", res.Ingredients[0].NameNorm)
	// Quantity parsed from the typed text when the request left it unset.
	require.NotNil(t, res.Ingredients[1].Quantity)
	assert.Equal(t, 2.0, *res.Ingredients[1].Quantity)
	require.NotNil(t, res.Ingredients[1].Unit)
	assert.Equal(t, "tbsp", *res.Ingredients[1].Unit)

	recipeID := uuid.MustParse(res.ID)
	for _, path := range []string{
		"title", "servings", "tags",
		"ingredients[0].original_text", "ingredients[1].original_text",
		"steps[0].text",
	} {
		status, ok := repo.fieldStatus(recipeID, path)
		require.True(t, ok, "expected a field status for %s", path)
		assert.Equal(t, entities.FieldStatusUserEntered, status)
	}
}

func TestRecipeNutritionUserEntered(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()

	calories := 320
	res, err := service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Title:       "Garlic Bread",
		Ingredients: []domain.IngredientRequest{{OriginalText: "1 baguette"}},
		Steps:       []domain.StepRequest{{Text: "Toast the bread."}},
		Nutrition:   &entities.Nutrition{Calories: &calories, ApprovedByUser: true},
	}, userID.String())
	require.NoError(t, err)

	require.NotNil(t, res.Nutrition)
	assert.Equal(t, calories, *res.Nutrition.Calories)
	status, ok := repo.fieldStatus(uuid.MustParse(res.ID), "nutrition")
	require.True(t, ok)
	assert.Equal(t, entities.FieldStatusUserEntered, status)
}

func TestUpdateRecipeNutrition(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()
	recipe := seedRecipe(repo, userID, entities.RecipeStatusVerified)

	calories := 210
	res, err := service.UpdateRecipe(context.Background(), recipe.ID.String(), domain.UpdateRecipeRequest{
		Nutrition: &entities.Nutrition{Calories: &calories},
	}, userID.String())
	require.NoError(t, err)

	require.NotNil(t, res.Nutrition)
	assert.Equal(t, calories, *res.Nutrition.Calories)
	assert.Equal(t, entities.RecipeStatusNeedsReview, res.Status)

	status, ok := repo.fieldStatus(recipe.ID, "nutrition")
	require.True(t, ok)
	assert.Equal(t, entities.FieldStatusUserEntered, status)
}

func TestVerifyRecipePassPromotesStatuses(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()
	recipe := seedRecipe(repo, userID, entities.RecipeStatusDraft)

	repo.statuses[statusKey(recipe.ID, "title")] = &entities.FieldStatus{
		RecipeID: recipe.ID, FieldPath: "title", Status: entities.FieldStatusExtracted,
	}
	repo.statuses[statusKey(recipe.ID, "servings")] = &entities.FieldStatus{
		RecipeID: recipe.ID, FieldPath: "servings", Status: entities.FieldStatusMissing,
	}

	res, err := service.VerifyRecipe(context.Background(), recipe.ID.String(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, entities.RecipeStatusVerified, res.Status)
	assert.Empty(t, res.Errors)
	assert.Equal(t, entities.RecipeStatusVerified, repo.recipes[recipe.ID.String()].Status)

	title, _ := repo.fieldStatus(recipe.ID, "title")
	assert.Equal(t, entities.FieldStatusVerified, title)
	// Missing statuses are not promoted; nothing was verified about them.
	missing, _ := repo.fieldStatus(recipe.ID, "servings")
	assert.Equal(t, entities.FieldStatusMissing, missing)
}

func TestVerifyRecipeFailureReturnsViolations(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()

	recipe := &entities.Recipe{ID: uuid.New(), UserID: userID, Status: entities.RecipeStatusDraft}
	repo.recipes[recipe.ID.String()] = recipe

	res, err := service.VerifyRecipe(context.Background(), recipe.ID.String(), userID.String())
	require.NoError(t, err, "gate failure is data, not an error")

	assert.Equal(t, entities.RecipeStatusDraft, res.Status)
	assert.Equal(t, []string{
		domain.ViolationTitleRequired,
		domain.ViolationIngredientRequired,
		domain.ViolationStepRequired,
	}, res.Errors)
	assert.Equal(t, entities.RecipeStatusDraft, repo.recipes[recipe.ID.String()].Status)
}

func TestUpdateVerifiedRecipeNeedsReview(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()
	recipe := seedRecipe(repo, userID, entities.RecipeStatusVerified)

	title := "Roasted Tomato Soup"
	res, err := service.UpdateRecipe(context.Background(), recipe.ID.String(), domain.UpdateRecipeRequest{
		Title: &title,
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, entities.RecipeStatusNeedsReview, res.Status)
	assert.Equal(t, title, res.Title)

	status, ok := repo.fieldStatus(recipe.ID, "title")
	require.True(t, ok)
	assert.Equal(t, entities.FieldStatusUserEntered, status)
}

func TestUpdateRecipeReplacesIngredientStatuses(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	userID := uuid.New()
	recipe := seedRecipe(repo, userID, entities.RecipeStatusDraft)

	repo.statuses[statusKey(recipe.ID, "ingredients[0].original_text")] = &entities.FieldStatus{
		RecipeID: recipe.ID, FieldPath: "ingredients[0].original_text", Status: entities.FieldStatusExtracted,
	}
	repo.statuses[statusKey(recipe.ID, "ingredients[1].original_text")] = &entities.FieldStatus{
		RecipeID: recipe.ID, FieldPath: "ingredients[1].original_text", Status: entities.FieldStatusExtracted,
	}

	ingredients := []domain.IngredientRequest{{OriginalText: "3 roma tomatoes"}}
	res, err := service.UpdateRecipe(context.Background(), recipe.ID.String(), domain.UpdateRecipeRequest{
		Ingredients: &ingredients,
	}, userID.String())
	require.NoError(t, err)
	require.Len(t, res.Ingredients, 1)

	// The whole list was replaced, so stale per-element statuses are gone.
	_, stale := repo.fieldStatus(recipe.ID, "ingredients[1].original_text")
	assert.False(t, stale)

	status, ok := repo.fieldStatus(recipe.ID, "ingredients[0].original_text")
	require.True(t, ok)
	assert.Equal(t, entities.FieldStatusUserEntered, status)
}

func TestRecipeOwnership(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := NewRecipeService(repo)
	owner := uuid.New()
	recipe := seedRecipe(repo, owner, entities.RecipeStatusDraft)

	_, err := service.GetRecipeByID(context.Background(), recipe.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = service.GetRecipeByID(context.Background(), uuid.New().String(), owner.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
