package handlers

import (
	"errors"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/Leeseryong88/logbook/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InstructorHandler struct {
	instructorService *services.InstructorService
}

func NewInstructorHandler(instructorService *services.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructorService: instructorService}
}

func (h *InstructorHandler) Submit(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.instructorService.Submit(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationPending),
			errors.Is(err, services.ErrApplicationApproved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewProfileResponse(user))
}

// Get returns the caller's own application state.
func (h *InstructorHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	application, err := h.instructorService.Application(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(fiber.Map{"application": application})
}

// ListPending is admin-only; the route applies the guard.
func (h *InstructorHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.instructorService.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list applications",
		})
	}

	return c.JSON(fiber.Map{"applications": pending})
}

func (h *InstructorHandler) Review(c *fiber.Ctx) error {
	reviewerID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	applicantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.instructorService.Review(reviewerID, applicantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingApplication):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to review application",
			})
		}
	}

	return c.JSON(dto.NewProfileResponse(user))
}
