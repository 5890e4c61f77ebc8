package matching

import (
	"context"
	"errors"
	"sort"

	"recipenow-backend/domain"
	"recipenow-backend/entities"

	"gorm.io/gorm"
)

type (
	MatchingService interface {
		MatchRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeMatchResult, error)
		MatchAll(ctx context.Context, userID string, query domain.MatchAllQuery) ([]domain.RecipeMatchResult, error)
		ShoppingList(ctx context.Context, req domain.ShoppingListRequest, userID string) (domain.ShoppingListResponse, error)
	}

	matchingService struct {
		matchingRepository MatchingRepository
	}
)

func NewMatchingService(matchingRepository MatchingRepository) MatchingService {
	return &matchingService{matchingRepository: matchingRepository}
}

func (s *matchingService) MatchRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeMatchResult, error) {
	recipe, err := s.ownedRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeMatchResult{}, err
	}

	items, err := s.matchingRepository.GetPantryItems(ctx, userID)
	if err != nil {
		return domain.RecipeMatchResult{}, err
	}

	return matchRecipe(recipe, buildPantryIndex(items)), nil
}

// MatchAll matches every recipe the user has, optionally filtered by status
// and minimum percentage, sorted best match first. Recipes without required
// ingredients are excluded; their percentage is undefined rather than zero.
func (s *matchingService) MatchAll(ctx context.Context, userID string, query domain.MatchAllQuery) ([]domain.RecipeMatchResult, error) {
	recipes, err := s.matchingRepository.GetRecipesByUser(ctx, userID, query.Status)
	if err != nil {
		return nil, err
	}

	items, err := s.matchingRepository.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	index := buildPantryIndex(items)

	results := make([]domain.RecipeMatchResult, 0, len(recipes))
	for _, recipe := range recipes {
		result := matchRecipe(recipe, index)
		if result.TotalIngredients == 0 {
			continue
		}
		if result.MatchPercentage < query.MinMatch {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
	return results, nil
}

// ShoppingList aggregates missing ingredients across the selected recipes.
// Without explicit recipe ids it covers all of the user's recipes; with a
// pantry override it matches against that hypothetical pantry instead of
// the stored one.
func (s *matchingService) ShoppingList(ctx context.Context, req domain.ShoppingListRequest, userID string) (domain.ShoppingListResponse, error) {
	var (
		recipes []*entities.Recipe
		err     error
	)
	if len(req.RecipeIDs) > 0 {
		recipes, err = s.matchingRepository.GetRecipesByIDs(ctx, userID, req.RecipeIDs)
	} else {
		recipes, err = s.matchingRepository.GetRecipesByUser(ctx, userID, "")
	}
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	var index []pantryEntry
	if req.PantryOverride != nil {
		index = overridePantryIndex(req.PantryOverride)
		if len(index) == 0 {
			return domain.ShoppingListResponse{}, domain.ErrEmptyPantryOverride
		}
	} else {
		items, err := s.matchingRepository.GetPantryItems(ctx, userID)
		if err != nil {
			return domain.ShoppingListResponse{}, err
		}
		index = buildPantryIndex(items)
	}

	var occurrences []missingOccurrence
	for _, recipe := range recipes {
		result := matchRecipe(recipe, index)
		for _, missing := range result.MissingIngredients {
			occurrences = append(occurrences, missingOccurrence{
				recipeTitle: recipe.Title,
				match:       missing,
			})
		}
	}

	items := aggregateShoppingList(occurrences)
	return domain.ShoppingListResponse{
		RecipeCount:  len(recipes),
		MissingItems: items,
		TotalMissing: len(items),
	}, nil
}

func (s *matchingService) ownedRecipe(ctx context.Context, id string, userID string) (*entities.Recipe, error) {
	recipe, err := s.matchingRepository.GetRecipeByID(ctx, id)
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
