package handlers

import (
	"errors"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/gofiber/fiber/v2"
)

// NameHandler serves the public display-name availability check used by
// signup and profile forms.
type NameHandler struct {
	profileService *services.ProfileService
}

func NewNameHandler(profileService *services.ProfileService) *NameHandler {
	return &NameHandler{profileService: profileService}
}

// Check reports whether a display name is free. Comparison runs on the
// normalized form, so "Ocean Explorer" and "ocean  explorer" collide.
func (h *NameHandler) Check(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "name parameter is required",
		})
	}

	available, err := h.profileService.CheckAvailability(name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidName) {
			return c.JSON(dto.NameAvailabilityResponse{Available: false})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Failed to check name availability",
		})
	}

	return c.JSON(dto.NameAvailabilityResponse{Available: available})
}
