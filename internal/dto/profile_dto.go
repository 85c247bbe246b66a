package dto

import (
	"time"

	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	DisplayName *string       `json:"display_name,omitempty"`
	Bio         *string       `json:"bio,omitempty"`
	Photo       *InlineUpload `json:"photo,omitempty"`
	RemovePhoto bool          `json:"remove_photo,omitempty"`
}

// InlineUpload carries a base64-encoded file in a JSON payload.
type InlineUpload struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type,omitempty"`
}

type ProfileResponse struct {
	ID          uuid.UUID                    `json:"id"`
	Email       string                       `json:"email"`
	DisplayName string                       `json:"display_name"`
	Bio         string                       `json:"bio"`
	PhotoKey    string                       `json:"photo_key,omitempty"`
	Role        string                       `json:"role"`
	Application models.InstructorApplication `json:"application"`
	CreatedAt   time.Time                    `json:"created_at"`
}

func NewProfileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		PhotoKey:    u.PhotoKey,
		Role:        u.Role,
		Application: u.Application,
		CreatedAt:   u.CreatedAt,
	}
}

type NameAvailabilityResponse struct {
	Available bool `json:"available"`
}
