package handlers

import (
	"context"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageHandler exposes the admin-only orphan audit: blobs under a
// user's prefix that no row references anymore. Cleanup is best-effort
// elsewhere, so orphans can accumulate after partial failures.
type StorageHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewStorageHandler(db *gorm.DB, store storage.ObjectStore) *StorageHandler {
	return &StorageHandler{db: db, store: store}
}

func (h *StorageHandler) ListOrphans(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "user_id parameter is required",
		})
	}

	stored, err := h.store.ListPrefix(context.Background(), storage.UserPrefix(userID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list stored objects",
		})
	}

	referenced, err := h.referencedKeys(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load key references",
		})
	}

	orphans := make([]string, 0)
	for _, key := range stored {
		if _, ok := referenced[key]; !ok {
			orphans = append(orphans, key)
		}
	}

	return c.JSON(fiber.Map{
		"user_id":    userID,
		"stored":     len(stored),
		"referenced": len(referenced),
		"orphans":    orphans,
	})
}

// referencedKeys collects every object key the user's rows point at:
// profile photo, certificate, badge icons, and dive-log photos.
func (h *StorageHandler) referencedKeys(userID uuid.UUID) (map[string]struct{}, error) {
	keys := make(map[string]struct{})

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err == nil {
		if user.PhotoKey != "" {
			keys[user.PhotoKey] = struct{}{}
		}
		if user.Application.CertificateKey != "" {
			keys[user.Application.CertificateKey] = struct{}{}
		}
	}

	var badges []models.CustomBadge
	if err := h.db.Where("user_id = ?", userID).Find(&badges).Error; err != nil {
		return nil, err
	}
	for i := range badges {
		if badges[i].IconKey != "" {
			keys[badges[i].IconKey] = struct{}{}
		}
	}

	var logs []models.DiveLog
	if err := h.db.Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return nil, err
	}
	for i := range logs {
		for _, k := range logs[i].PhotoKeyList() {
			keys[k] = struct{}{}
		}
	}

	return keys, nil
}
