package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can hold. Role is mutated only by an admin
// approving an instructor application.
const (
	RoleDiver      = "diver"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Instructor application states.
const (
	ApplicationNone     = "none"
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// InstructorApplication lives embedded in the user row. A user has at
// most one application; submitting again after a rejection overwrites it.
type InstructorApplication struct {
	Status         string     `gorm:"size:20;default:'none'" json:"status"`
	Message        string     `gorm:"type:text" json:"message,omitempty"`
	CertificateKey string     `gorm:"size:512" json:"certificate_key,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewerID     *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewNote     string     `gorm:"type:text" json:"review_note,omitempty"`
}

// User is the account merged with its profile document. The profile
// half (display name, bio, photo) starts empty and is filled in lazily.
type User struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string                `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string                `gorm:"not null" json:"-"`
	DisplayName  string                `gorm:"size:100" json:"display_name"`
	Bio          string                `gorm:"type:text" json:"bio"`
	PhotoKey     string                `gorm:"size:512" json:"photo_key"`
	Role         string                `gorm:"size:20;default:'diver'" json:"role"`
	GoogleUserID *string               `gorm:"size:255;index" json:"-"`
	AuthProvider string                `gorm:"size:50;default:'email'" json:"-"`
	Application  InstructorApplication `gorm:"embedded;embeddedPrefix:application_" json:"application"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	DeletedAt    gorm.DeletedAt        `gorm:"index" json:"-"`
}
