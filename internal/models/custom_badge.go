package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomBadge is a user-authored achievement. Unlike catalog badges its
// unlock state is not computed; the row existing means it is unlocked.
type CustomBadge struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:50;default:'personal'" json:"category"`
	IconKey     string         `gorm:"size:512" json:"icon_key"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
