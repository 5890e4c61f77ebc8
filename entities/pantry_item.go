package entities

import (
	"github.com/google/uuid"
)

// PantryItem is one ingredient a user has on hand. NameNorm is derived from
// NameOriginal by the normalizer and is the only field matching reads.
type PantryItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID `gorm:"index:ix_pantry_items_user_norm" json:"user_id"`
	NameOriginal string    `json:"name_original"`
	NameNorm     string    `gorm:"index:ix_pantry_items_user_norm" json:"name_norm"`
	Quantity     *float64  `json:"quantity,omitempty"`
	Unit         *string   `json:"unit,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
