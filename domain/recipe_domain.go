package domain

import (
	"errors"
	"time"

	"recipenow-backend/entities"
)

var (
	MessageSuccessCreateRecipe   = "recipe created successfully"
	MessageSuccessGetRecipe      = "recipe retrieved successfully"
	MessageSuccessGetRecipes     = "recipes retrieved successfully"
	MessageSuccessUpdateRecipe   = "recipe updated successfully"
	MessageSuccessDeleteRecipe   = "recipe deleted successfully"
	MessageSuccessVerifyRecipe   = "recipe verification evaluated"
	MessageSuccessGetSpans       = "source spans retrieved successfully"
	MessageSuccessGetFieldStatus = "field statuses retrieved successfully"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedGetRecipe       = "failed to retrieve recipe"
	MessageFailedGetRecipes      = "failed to retrieve recipes"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedVerifyRecipe    = "failed to verify recipe"
	MessageFailedGetSpans        = "failed to retrieve source spans"
	MessageFailedGetFieldStatus  = "failed to retrieve field statuses"

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrInvalidRecipeState = errors.New("invalid recipe status")
)

// Verification gate violations. Returned as data, never as an error.
var (
	ViolationTitleRequired      = "title is required"
	ViolationIngredientRequired = "at least one ingredient is required"
	ViolationStepRequired       = "at least one step is required"
)

type (
	IngredientRequest struct {
		OriginalText string   `json:"original_text" validate:"required"`
		Quantity     *float64 `json:"quantity,omitempty"`
		Unit         *string  `json:"unit,omitempty"`
		Optional     bool     `json:"optional"`
	}

	StepRequest struct {
		Text string `json:"text" validate:"required"`
	}

	CreateRecipeRequest struct {
		Title       string              `json:"title"`
		Servings    *int                `json:"servings,omitempty" validate:"omitempty,min=1"`
		Ingredients []IngredientRequest `json:"ingredients" validate:"dive"`
		Steps       []StepRequest       `json:"steps" validate:"dive"`
		Tags        []string            `json:"tags"`
		Nutrition   *entities.Nutrition `json:"nutrition,omitempty"`
	}

	// UpdateRecipeRequest is a partial edit. Nil fields are untouched; any
	// non-nil field counts as a user edit for status purposes.
	UpdateRecipeRequest struct {
		Title       *string              `json:"title,omitempty"`
		Servings    *int                 `json:"servings,omitempty" validate:"omitempty,min=1"`
		Times       *entities.Times      `json:"times,omitempty"`
		Ingredients *[]IngredientRequest `json:"ingredients,omitempty" validate:"omitempty,dive"`
		Steps       *[]StepRequest       `json:"steps,omitempty" validate:"omitempty,dive"`
		Tags        *[]string            `json:"tags,omitempty"`
		Nutrition   *entities.Nutrition  `json:"nutrition,omitempty"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Title            string                     `json:"title,omitempty"`
		Servings         *int                       `json:"servings,omitempty"`
		ServingsEstimate *entities.ServingsEstimate `json:"servings_estimate,omitempty"`
		Times            *entities.Times            `json:"times,omitempty"`
		Ingredients      []entities.Ingredient      `json:"ingredients"`
		Steps            []entities.Step            `json:"steps"`
		Tags             []string                   `json:"tags"`
		Nutrition        *entities.Nutrition        `json:"nutrition,omitempty"`
		Status           string                     `json:"status"`
		CreatedAt        time.Time                  `json:"created_at"`
		UpdatedAt        time.Time                  `json:"updated_at"`
	}

	VerifyRecipeResponse struct {
		RecipeID string   `json:"recipe_id"`
		Status   string   `json:"status"`
		Errors   []string `json:"errors"`
	}

	SourceSpanResponse struct {
		FieldPath     string    `json:"field_path"`
		AssetID       string    `json:"asset_id"`
		Page          int       `json:"page"`
		BBox          []float64 `json:"bbox"`
		OCRConfidence float64   `json:"ocr_confidence"`
		ExtractedText string    `json:"extracted_text"`
		SourceMethod  string    `json:"source_method"`
		CreatedAt     time.Time `json:"created_at"`
	}

	FieldStatusResponse struct {
		FieldPath string `json:"field_path"`
		Status    string `json:"status"`
		Notes     string `json:"notes,omitempty"`
	}
)
