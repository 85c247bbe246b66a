package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrApplicationPending   = errors.New("application is already pending")
	ErrApplicationApproved  = errors.New("application is already approved")
	ErrNoPendingApplication = errors.New("no pending application to review")
)

type InstructorService struct {
	db    *gorm.DB
	store storage.ObjectStore
	hub   *ProfileHub
}

func NewInstructorService(db *gorm.DB, store storage.ObjectStore, hub *ProfileHub) *InstructorService {
	return &InstructorService{db: db, store: store, hub: hub}
}

// Submit files an application. Allowed from the none and rejected
// states; a rejected application's certificate is replaced and its
// review fields cleared.
func (s *InstructorService) Submit(userID uuid.UUID, req *dto.SubmitApplicationRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	switch user.Application.Status {
	case models.ApplicationPending:
		return nil, ErrApplicationPending
	case models.ApplicationApproved:
		return nil, ErrApplicationApproved
	}

	if req.Certificate == nil || req.Certificate.Data == "" {
		return nil, errors.New("certificate file is required")
	}

	data, err := base64.StdEncoding.DecodeString(req.Certificate.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid certificate data: %w", err)
	}

	certKey := storage.CertificateKey(userID, req.Certificate.ContentType)
	if err := s.store.Upload(context.Background(), certKey, data, req.Certificate.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload certificate: %w", err)
	}

	oldCertKey := user.Application.CertificateKey
	now := time.Now()
	updates := map[string]interface{}{
		"application_status":          models.ApplicationPending,
		"application_message":         req.Message,
		"application_certificate_key": certKey,
		"application_submitted_at":    now,
		"application_reviewed_at":     nil,
		"application_reviewer_id":     nil,
		"application_review_note":     "",
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		if derr := s.store.Delete(context.Background(), certKey); derr != nil {
			slog.Error("failed to delete orphaned certificate", "key", certKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	if oldCertKey != "" && oldCertKey != certKey {
		if err := s.store.Delete(context.Background(), oldCertKey); err != nil {
			slog.Error("failed to delete stale certificate", "key", oldCertKey, "error", err)
		}
	}

	return s.reload(userID)
}

// Application returns the caller's current application state. Users
// who never applied get the zero-value (status none).
func (s *InstructorService) Application(userID uuid.UUID) (*models.InstructorApplication, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user.Application, nil
}

// ListPending returns users with a pending application, oldest first.
func (s *InstructorService) ListPending() ([]dto.PendingApplicationResponse, error) {
	var users []models.User
	err := s.db.Where("application_status = ?", models.ApplicationPending).
		Order("application_submitted_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	out := make([]dto.PendingApplicationResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, dto.PendingApplicationResponse{
			UserID:      u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Application: u.Application,
			MemberSince: u.CreatedAt,
		})
	}
	return out, nil
}

// Review settles a pending application. Approval is the only path that
// mutates the user's role.
func (s *InstructorService) Review(reviewerID, applicantID uuid.UUID, req *dto.ReviewApplicationRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", applicantID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if user.Application.Status != models.ApplicationPending {
		return nil, ErrNoPendingApplication
	}

	now := time.Now()
	updates := map[string]interface{}{
		"application_reviewed_at": now,
		"application_reviewer_id": reviewerID,
		"application_review_note": req.Note,
	}
	if req.Approve {
		updates["application_status"] = models.ApplicationApproved
		updates["role"] = models.RoleInstructor
	} else {
		updates["application_status"] = models.ApplicationRejected
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to review application: %w", err)
	}

	fresh, err := s.reload(applicantID)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(applicantID, dto.NewProfileResponse(fresh))
	return fresh, nil
}

func (s *InstructorService) reload(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}
