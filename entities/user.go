package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// User is the owner of assets, recipes and pantry items. Account management
// (registration, login, password reset) lives in a separate service; this row
// only anchors foreign keys and JWT subject ids.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email string    `gorm:"uniqueIndex" json:"email"`
	Name  string    `json:"name"`

	Timestamp
}
