package domain

import "errors"

var (
	MessageSuccessMatchRecipe  = "recipe matched against pantry"
	MessageSuccessMatchAll     = "recipes matched against pantry"
	MessageSuccessShoppingList = "shopping list aggregated successfully"
	MessageFailedMatchRecipe   = "failed to match recipe"
	MessageFailedMatchAll      = "failed to match recipes"
	MessageFailedShoppingList  = "failed to aggregate shopping list"

	ErrEmptyPantryOverride = errors.New("pantry override must not be empty")
)

type (
	// IngredientMatch reports one recipe ingredient against the pantry.
	IngredientMatch struct {
		OriginalText string   `json:"original_text"`
		NameNorm     string   `json:"name_norm"`
		Quantity     *float64 `json:"quantity,omitempty"`
		Unit         *string  `json:"unit,omitempty"`
		Optional     bool     `json:"optional"`
		Found        bool     `json:"found"`
		PantryItemID string   `json:"pantry_item_id,omitempty"`
	}

	RecipeMatchResult struct {
		RecipeID           string            `json:"recipe_id"`
		Title              string            `json:"title,omitempty"`
		Status             string            `json:"status"`
		MatchPercentage    float64           `json:"match_percentage"`
		TotalIngredients   int               `json:"total_ingredients"`
		MatchedIngredients int               `json:"matched_ingredients"`
		IngredientMatches  []IngredientMatch `json:"ingredient_matches"`
		MissingIngredients []IngredientMatch `json:"missing_ingredients"`
		// MissingOptional lists unfound optional ingredients. They never
		// count against the percentage or the shopping list.
		MissingOptional []IngredientMatch `json:"missing_optional"`
	}

	MatchAllQuery struct {
		MinMatch float64 `query:"min_match" validate:"min=0,max=100"`
		Status   string  `query:"status" validate:"omitempty,oneof=draft needs_review verified"`
	}

	ShoppingListRequest struct {
		RecipeIDs []string `json:"recipe_ids"`
		// PantryOverride, when present, is matched against instead of the
		// stored pantry. Nothing is persisted.
		PantryOverride []string `json:"pantry_override,omitempty"`
	}

	ShoppingListItem struct {
		OriginalText  string   `json:"original_text"`
		NameNorm      string   `json:"name_norm"`
		TotalQuantity *float64 `json:"total_quantity,omitempty"`
		Unit          *string  `json:"unit,omitempty"`
		Count         int      `json:"count"`
		Recipes       []string `json:"recipes"`
	}

	ShoppingListResponse struct {
		RecipeCount  int                `json:"recipe_count"`
		MissingItems []ShoppingListItem `json:"missing_items"`
		TotalMissing int                `json:"total_missing"`
	}
)
