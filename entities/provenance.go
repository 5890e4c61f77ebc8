package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SourceMethodOCR       = "ocr"
	SourceMethodLLMVision = "llm-vision"
)

const (
	FieldStatusMissing     = "missing"
	FieldStatusExtracted   = "extracted"
	FieldStatusUserEntered = "user_entered"
	FieldStatusVerified    = "verified"
)

// SourceSpan links one recipe field to the asset region and recognized text
// that justified its value. A field may have several spans (a quantity and
// its unit can come from different lines). Evidence is an opaque JSON payload
// for provenance display, typically the contributing OCR line ids.
type SourceSpan struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID      uuid.UUID                    `gorm:"index:ix_source_spans_recipe_field" json:"recipe_id"`
	FieldPath     string                       `gorm:"index:ix_source_spans_recipe_field" json:"field_path"`
	AssetID       uuid.UUID                    `gorm:"index" json:"asset_id"`
	Page          int                          `gorm:"default:0" json:"page"`
	BBox          datatypes.JSONSlice[float64] `json:"bbox"`
	OCRConfidence float64                      `gorm:"default:0" json:"ocr_confidence"`
	ExtractedText string                       `gorm:"type:text" json:"extracted_text"`
	SourceMethod  string                       `gorm:"size:20;default:ocr;index" json:"source_method"`
	Evidence      datatypes.JSON               `json:"evidence,omitempty"`
	CreatedAt     time.Time                    `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe     `gorm:"foreignKey:RecipeID" json:"-"`
	Asset  *MediaAsset `gorm:"foreignKey:AssetID" json:"-"`
}

// FieldStatus is the provenance state of one recipe field. Exactly one row
// per (recipe, field_path).
type FieldStatus struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID  uuid.UUID `gorm:"uniqueIndex:ux_field_statuses_recipe_field" json:"recipe_id"`
	FieldPath string    `gorm:"uniqueIndex:ux_field_statuses_recipe_field" json:"field_path"`
	Status    string    `gorm:"size:20" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
