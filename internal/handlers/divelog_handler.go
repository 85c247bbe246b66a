package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/Leeseryong88/logbook/internal/session"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DiveLogHandler struct {
	diveLogService *services.DiveLogService
	store          storage.ObjectStore
}

func NewDiveLogHandler(diveLogService *services.DiveLogService, store storage.ObjectStore) *DiveLogHandler {
	return &DiveLogHandler{diveLogService: diveLogService, store: store}
}

func (h *DiveLogHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	logs, total, err := h.diveLogService.List(userID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list dive logs",
		})
	}

	return c.JSON(dto.DiveLogListResponse{Logs: logs, Total: total, Page: page, Limit: limit})
}

func (h *DiveLogHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid dive log id",
		})
	}

	log, err := h.diveLogService.Get(userID, logID)
	if err != nil {
		if errors.Is(err, services.ErrDiveLogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(log)
}

func (h *DiveLogHandler) Upsert(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpsertDiveLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	log, err := h.diveLogService.Upsert(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDiveType),
			errors.Is(err, services.ErrForeignPhotoKey):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case strings.Contains(err.Error(), "invalid dive log"),
			strings.Contains(err.Error(), "invalid photo data"):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to save dive log",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *DiveLogHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid dive log id",
		})
	}

	if err := h.diveLogService.Delete(userID, logID); err != nil {
		if errors.Is(err, services.ErrDiveLogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete dive log",
		})
	}

	return c.JSON(fiber.Map{"message": "Dive log deleted"})
}

func (h *DiveLogHandler) Stats(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.diveLogService.Stats(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute stats",
		})
	}

	return c.JSON(stats)
}

// PhotoURL issues a short-lived download URL for a photo the caller owns.
func (h *DiveLogHandler) PhotoURL(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "key parameter is required",
		})
	}
	if !storage.OwnedBy(key, userID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "key does not belong to this user",
		})
	}

	url, err := h.store.PresignGet(context.Background(), key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to presign photo URL",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
