package dto

import (
	"time"

	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/google/uuid"
)

type SubmitApplicationRequest struct {
	Message     string        `json:"message"`
	Certificate *InlineUpload `json:"certificate"`
}

type ReviewApplicationRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

type PendingApplicationResponse struct {
	UserID      uuid.UUID                    `json:"user_id"`
	Email       string                       `json:"email"`
	DisplayName string                       `json:"display_name"`
	Application models.InstructorApplication `json:"application"`
	MemberSince time.Time                    `json:"member_since"`
}
