package models

import (
	"time"

	"github.com/google/uuid"
)

// DisplayNameReservation maps a normalized display name to its owner.
// The normalized name is the primary key, so at most one row can claim
// a name; the reservation transaction relies on that.
type DisplayNameReservation struct {
	Key         string    `gorm:"primaryKey;size:100" json:"key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
