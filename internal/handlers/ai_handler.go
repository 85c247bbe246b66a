package handlers

import (
	"errors"
	"strings"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) EnrichNotes(c *fiber.Ctx) error {
	var req dto.EnrichNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.aiService.EnrichNotes(&req)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(resp)
}

func (h *AIHandler) IdentifySpecies(c *fiber.Ctx) error {
	var req dto.IdentifySpeciesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.aiService.IdentifySpecies(&req)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(resp)
}

func aiError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAINotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case strings.Contains(err.Error(), "required"):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "AI request failed",
		})
	}
}
