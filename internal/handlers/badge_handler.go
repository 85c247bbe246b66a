package handlers

import (
	"errors"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/Leeseryong88/logbook/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
}

func NewBadgeHandler(badgeService *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// Achievements returns the full unified list, catalog and custom.
func (h *BadgeHandler) Achievements(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	achievements, err := h.badgeService.Achievements(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load achievements",
		})
	}

	return c.JSON(fiber.Map{"achievements": achievements})
}

func (h *BadgeHandler) CreateCustom(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCustomBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	badge, err := h.badgeService.CreateCustom(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrBadgeRejected) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(badge)
}

func (h *BadgeHandler) DeleteCustom(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	badgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid badge id",
		})
	}

	if err := h.badgeService.DeleteCustom(userID, badgeID); err != nil {
		if errors.Is(err, services.ErrBadgeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete badge",
		})
	}

	return c.JSON(fiber.Map{"message": "Badge deleted"})
}
