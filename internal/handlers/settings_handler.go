package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// GetConfig returns the client-visible settings as a typed map (public).
func (h *SettingsHandler) GetConfig(c *fiber.Ctx) error {
	var settings []models.AppSetting
	if err := h.db.Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Failed to fetch configuration",
		})
	}

	result := make(map[string]interface{})
	for _, s := range settings {
		result[s.Key] = decodeSettingValue(s)
	}

	return c.JSON(result)
}

// SetConfigKey creates or updates a setting (admin only).
func (h *SettingsHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Key parameter is required",
		})
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"` // string, bool, int, json
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Invalid request body",
		})
	}

	if payload.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Value is required",
		})
	}
	if payload.Type == "" {
		payload.Type = "string"
	}

	var setting models.AppSetting
	err := h.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.AppSetting{
			ID:        uuid.New(),
			Key:       key,
			Value:     payload.Value,
			Type:      payload.Type,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := h.db.Create(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Failed to create setting",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Failed to query setting",
		})
	} else {
		setting.Value = payload.Value
		setting.Type = payload.Type
		setting.UpdatedAt = time.Now()
		if err := h.db.Save(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Failed to update setting",
			})
		}
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting updated successfully",
		"setting": fiber.Map{
			"key":   setting.Key,
			"value": setting.Value,
			"type":  setting.Type,
		},
	})
}

// DeleteConfigKey deletes a setting (admin only).
func (h *SettingsHandler) DeleteConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Key parameter is required",
		})
	}

	result := h.db.Where("key = ?", key).Delete(&models.AppSetting{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Failed to delete setting",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Setting not found",
		})
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting deleted successfully",
	})
}

// SeedDefaults inserts the default settings if they are missing.
func (h *SettingsHandler) SeedDefaults() error {
	defaults := []models.AppSetting{
		{Key: "ai.enabled", Value: "true", Type: "bool"},
		{Key: "uploads.max_mb", Value: "10", Type: "int"},
		{Key: "badges.catalog_version", Value: "1", Type: "int"},
		{Key: "maintenance_mode", Value: "false", Type: "bool"},
		{Key: "announcement_title", Value: "", Type: "string"},
		{Key: "announcement_message", Value: "", Type: "string"},
	}

	for _, d := range defaults {
		var existing models.AppSetting
		err := h.db.Where("key = ?", d.Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			d.ID = uuid.New()
			if err := h.db.Create(&d).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func decodeSettingValue(s models.AppSetting) interface{} {
	switch s.Type {
	case "bool":
		v, _ := strconv.ParseBool(s.Value)
		return v
	case "int":
		v, _ := strconv.Atoi(s.Value)
		return v
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			return s.Value
		}
		return v
	default:
		return s.Value
	}
}
