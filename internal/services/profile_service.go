package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidName     = errors.New("display name is invalid")
	ErrNameTaken       = errors.New("display name is already taken")
	ErrProfileNotFound = errors.New("profile not found")
)

// NormalizeDisplayName trims, lowercases and collapses internal
// whitespace. The result is the reservation key.
func NormalizeDisplayName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

type ProfileService struct {
	db     *gorm.DB
	store  storage.ObjectStore
	filter *ContentFilter
	hub    *ProfileHub
}

func NewProfileService(db *gorm.DB, store storage.ObjectStore, filter *ContentFilter, hub *ProfileHub) *ProfileService {
	return &ProfileService{db: db, store: store, filter: filter, hub: hub}
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// Update applies profile edits. Every field is validated before any
// state changes: a rejected bio or undecodable photo must not release
// the user's current display-name reservation. Only then does a name
// change go through the reservation transaction, and the row update
// only happens once the name is held.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Bio != nil {
		if ok, reason := s.filter.Check(*req.Bio); !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidName, reason)
		}
		updates["bio"] = *req.Bio
	}

	var photoData []byte
	if req.Photo != nil {
		photoData, err = base64.StdEncoding.DecodeString(req.Photo.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid photo data: %w", err)
		}
	}

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if err := s.ReserveDisplayName(userID, trimmed, user.DisplayName); err != nil {
			return nil, err
		}
		updates["display_name"] = trimmed
	}

	oldPhotoKey := ""
	if req.Photo != nil {
		key := storage.ProfilePhotoKey(userID, req.Photo.ContentType)
		if err := s.store.Upload(context.Background(), key, photoData, req.Photo.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload profile photo: %w", err)
		}
		oldPhotoKey = user.PhotoKey
		updates["photo_key"] = key
	} else if req.RemovePhoto {
		oldPhotoKey = user.PhotoKey
		updates["photo_key"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if oldPhotoKey != "" {
		if err := s.store.Delete(context.Background(), oldPhotoKey); err != nil {
			slog.Error("failed to delete stale profile photo", "key", oldPhotoKey, "error", err)
		}
	}

	user, err = s.Get(userID)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(userID, dto.NewProfileResponse(user))
	return user, nil
}

// ReserveDisplayName claims a name for the user, enforcing global
// case/whitespace-insensitive uniqueness. Inside one transaction it
// re-reads the reservation row, rejects a claim held by someone else,
// writes its own, and drops the previous name's row when the key
// changed. Two racers on a fresh key both pass the recheck, but the
// primary key on the normalized name lets only one insert commit; the
// loser's violation maps to ErrNameTaken.
func (s *ProfileService) ReserveDisplayName(userID uuid.UUID, name, previousName string) error {
	key := NormalizeDisplayName(name)
	if key == "" {
		return ErrInvalidName
	}
	if ok, reason := s.filter.CheckName(name); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidName, reason)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.DisplayNameReservation
		err := tx.First(&existing, "key = ?", key).Error

		switch {
		case err == nil:
			if existing.UserID != userID {
				return ErrNameTaken
			}
			if err := tx.Model(&models.DisplayNameReservation{}).
				Where("key = ?", key).
				Update("display_name", strings.TrimSpace(name)).Error; err != nil {
				return fmt.Errorf("failed to refresh reservation: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			res := models.DisplayNameReservation{
				Key:         key,
				UserID:      userID,
				DisplayName: strings.TrimSpace(name),
			}
			if err := tx.Create(&res).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
					return ErrNameTaken
				}
				return fmt.Errorf("failed to create reservation: %w", err)
			}
		default:
			return fmt.Errorf("failed to read reservation: %w", err)
		}

		if previousName != "" {
			prevKey := NormalizeDisplayName(previousName)
			if prevKey != "" && prevKey != key {
				if err := tx.Where("key = ? AND user_id = ?", prevKey, userID).
					Delete(&models.DisplayNameReservation{}).Error; err != nil {
					return fmt.Errorf("failed to release previous reservation: %w", err)
				}
			}
		}

		return nil
	})
}

// CheckAvailability reports whether a candidate name is free. Invalid
// names are reported as unavailable rather than erroring, matching the
// public endpoint's contract.
func (s *ProfileService) CheckAvailability(name string) (bool, error) {
	key := NormalizeDisplayName(name)
	if key == "" {
		return false, ErrInvalidName
	}

	var count int64
	if err := s.db.Model(&models.DisplayNameReservation{}).
		Where("key = ?", key).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return count == 0, nil
}
