package matching

import (
	"context"
	"testing"

	"recipenow-backend/domain"
	"recipenow-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMatchingRepository struct {
	recipes []*entities.Recipe
	pantry  []*entities.PantryItem
}

func (f *fakeMatchingRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	for _, recipe := range f.recipes {
		if recipe.ID.String() == id {
			return recipe, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMatchingRepository) GetRecipesByUser(_ context.Context, userID string, status string) ([]*entities.Recipe, error) {
	var out []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() != userID {
			continue
		}
		if status != "" && recipe.Status != status {
			continue
		}
		out = append(out, recipe)
	}
	return out, nil
}

func (f *fakeMatchingRepository) GetRecipesByIDs(_ context.Context, userID string, ids []string) ([]*entities.Recipe, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() == userID && want[recipe.ID.String()] {
			out = append(out, recipe)
		}
	}
	return out, nil
}

func (f *fakeMatchingRepository) GetPantryItems(_ context.Context, userID string) ([]*entities.PantryItem, error) {
	var out []*entities.PantryItem
	for _, item := range f.pantry {
		if item.UserID.String() == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func userRecipe(userID uuid.UUID, title string, ingredients ...entities.Ingredient) *entities.Recipe {
	recipe := recipeOf(title, ingredients...)
	recipe.UserID = userID
	return recipe
}

func TestMatchAllSortsAndFilters(t *testing.T) {
	userID := uuid.New()
	repo := &fakeMatchingRepository{
		recipes: []*entities.Recipe{
			userRecipe(userID, "Half Match",
				entities.Ingredient{OriginalText: "onion", NameNorm: "onion"},
				entities.Ingredient{OriginalText: "flour", NameNorm: "flour"},
			),
			userRecipe(userID, "Full Match",
				entities.Ingredient{OriginalText: "onion", NameNorm: "onion"},
			),
			userRecipe(userID, "No Ingredients"),
		},
		pantry: []*entities.PantryItem{
			{ID: uuid.New(), UserID: userID, NameOriginal: "onion", NameNorm: "onion"},
		},
	}
	service := NewMatchingService(repo)

	results, err := service.MatchAll(context.Background(), userID.String(), domain.MatchAllQuery{})
	require.NoError(t, err)

	// The empty recipe is excluded rather than reported at zero.
	require.Len(t, results, 2)
	assert.Equal(t, "Full Match", results[0].Title)
	assert.InDelta(t, 100.0, results[0].MatchPercentage, 0.001)
	assert.Equal(t, "Half Match", results[1].Title)
	assert.InDelta(t, 50.0, results[1].MatchPercentage, 0.001)

	results, err = service.MatchAll(context.Background(), userID.String(), domain.MatchAllQuery{MinMatch: 75})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Full Match", results[0].Title)
}

func TestMatchRecipeOwnership(t *testing.T) {
	owner := uuid.New()
	recipe := userRecipe(owner, "Soup", entities.Ingredient{OriginalText: "onion", NameNorm: "onion"})
	service := NewMatchingService(&fakeMatchingRepository{recipes: []*entities.Recipe{recipe}})

	_, err := service.MatchRecipe(context.Background(), recipe.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = service.MatchRecipe(context.Background(), uuid.NewString(), owner.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestShoppingListAcrossRecipes(t *testing.T) {
	userID := uuid.New()
	flourQty := 2.0
	flourUnit := "cup"
	repo := &fakeMatchingRepository{
		recipes: []*entities.Recipe{
			userRecipe(userID, "Pancakes",
				entities.Ingredient{OriginalText: "2 cups flour", NameNorm: "flour", Quantity: &flourQty, Unit: &flourUnit},
			),
			userRecipe(userID, "Bread",
				entities.Ingredient{OriginalText: "2 cups flour", NameNorm: "flour", Quantity: &flourQty, Unit: &flourUnit},
			),
		},
	}
	service := NewMatchingService(repo)

	res, err := service.ShoppingList(context.Background(), domain.ShoppingListRequest{}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, 2, res.RecipeCount)
	assert.Equal(t, 1, res.TotalMissing)
	require.Len(t, res.MissingItems, 1)
	item := res.MissingItems[0]
	assert.Equal(t, "flour", item.NameNorm)
	assert.Equal(t, 4.0, *item.TotalQuantity)
	assert.Equal(t, "cup", *item.Unit)
	assert.Equal(t, 2, item.Count)
	assert.ElementsMatch(t, []string{"Pancakes", "Bread"}, item.Recipes)
}

func TestShoppingListPantryOverride(t *testing.T) {
	userID := uuid.New()
	repo := &fakeMatchingRepository{
		recipes: []*entities.Recipe{
			userRecipe(userID, "Soup",
				entities.Ingredient{OriginalText: "1 onion", NameNorm: "onion"},
				entities.Ingredient{OriginalText: "2 carrots", NameNorm: "carrot"},
			),
		},
		pantry: []*entities.PantryItem{
			{ID: uuid.New(), UserID: userID, NameOriginal: "onion", NameNorm: "onion"},
			{ID: uuid.New(), UserID: userID, NameOriginal: "carrot", NameNorm: "carrot"},
		},
	}
	service := NewMatchingService(repo)

	// The stored pantry covers everything.
	res, err := service.ShoppingList(context.Background(), domain.ShoppingListRequest{}, userID.String())
	require.NoError(t, err)
	assert.Zero(t, res.TotalMissing)

	// The override replaces it without persisting anything.
	res, err = service.ShoppingList(context.Background(), domain.ShoppingListRequest{
		PantryOverride: []string{"onions"},
	}, userID.String())
	require.NoError(t, err)
	require.Len(t, res.MissingItems, 1)
	assert.Equal(t, "carrot", res.MissingItems[0].NameNorm)

	_, err = service.ShoppingList(context.Background(), domain.ShoppingListRequest{
		PantryOverride: []string{"   "},
	}, userID.String())
	assert.ErrorIs(t, err, domain.ErrEmptyPantryOverride)
}
