package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AssetTypeImage = "image"
	AssetTypePDF   = "pdf"
)

const (
	OCRStatusPending   = "pending"
	OCRStatusCompleted = "completed"
	OCRStatusFailed    = "failed"
)

// MediaAsset is one uploaded recipe photo or PDF. Immutable once created
// except for OCR status and source label.
type MediaAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `gorm:"index:ix_media_assets_user_sha256;index" json:"user_id"`
	Type        string    `gorm:"size:10" json:"type"` // "image" or "pdf"
	SHA256      string    `gorm:"size:64;index:ix_media_assets_user_sha256" json:"sha256"`
	StoragePath string    `json:"storage_path"`
	SourceLabel string    `json:"source_label,omitempty"`
	OCRStatus   string    `gorm:"size:20;default:pending" json:"ocr_status"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// OCRLine is one recognized text line with its bounding box. Produced once by
// OCR, never edited. BBox is [x, y, w, h] in the asset's pixel units.
type OCRLine struct {
	ID         uuid.UUID                    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AssetID    uuid.UUID                    `gorm:"index" json:"asset_id"`
	Page       int                          `gorm:"default:0" json:"page"`
	Text       string                       `gorm:"type:text" json:"text"`
	BBox       datatypes.JSONSlice[float64] `json:"bbox"`
	Confidence float64                      `gorm:"default:0" json:"confidence"`
	CreatedAt  time.Time                    `gorm:"type:timestamp" json:"created_at"`

	Asset *MediaAsset `gorm:"foreignKey:AssetID" json:"-"`
}
