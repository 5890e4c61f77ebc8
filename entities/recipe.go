package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RecipeStatusDraft       = "draft"
	RecipeStatusNeedsReview = "needs_review"
	RecipeStatusVerified    = "verified"
)

// Ingredient is embedded in Recipe. OriginalText is the verbatim extracted or
// user-typed line; NameNorm is derived from it and only used for matching.
type Ingredient struct {
	OriginalText string   `json:"original_text"`
	NameNorm     string   `json:"name_norm,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Optional     bool     `json:"optional"`
}

type Step struct {
	Text string `json:"text"`
}

// Times is the recipe time breakdown in minutes.
type Times struct {
	PrepMin  *int `json:"prep_min,omitempty"`
	CookMin  *int `json:"cook_min,omitempty"`
	TotalMin *int `json:"total_min,omitempty"`
}

type Nutrition struct {
	Calories       *int `json:"calories,omitempty"`
	Estimated      bool `json:"estimated"`
	ApprovedByUser bool `json:"approved_by_user"`
}

// ServingsEstimate is a derived servings value. It must never be treated as
// the literal servings count unless ApprovedByUser is set.
type ServingsEstimate struct {
	Value          *int     `json:"value,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Basis          string   `json:"basis,omitempty"`
	ApprovedByUser bool     `json:"approved_by_user"`
}

// Recipe is the structured record produced by extraction and refined by user
// edits. Servings and ServingsEstimate are mutually exclusive views of the
// same fact: a literal value read off the page vs an inferred one.
type Recipe struct {
	ID               uuid.UUID                       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID                       `gorm:"index:ix_recipes_user_status" json:"user_id"`
	Title            string                          `json:"title,omitempty"`
	Servings         *int                            `json:"servings,omitempty"`
	ServingsEstimate *ServingsEstimate               `gorm:"serializer:json" json:"servings_estimate,omitempty"`
	Times            *Times                          `gorm:"serializer:json" json:"times,omitempty"`
	Ingredients      datatypes.JSONSlice[Ingredient] `json:"ingredients"`
	Steps            datatypes.JSONSlice[Step]       `json:"steps"`
	Tags             datatypes.JSONSlice[string]     `json:"tags"`
	Nutrition        *Nutrition                      `gorm:"serializer:json" json:"nutrition,omitempty"`
	Status           string                          `gorm:"size:20;default:draft;index:ix_recipes_user_status" json:"status"`
	DeletedAt        gorm.DeletedAt                  `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
