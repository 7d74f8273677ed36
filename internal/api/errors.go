package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/EMNTV/excellencemedianumerique/internal/common"
)

// fail writes the JSON error envelope for err, mapping the shared error
// taxonomy onto HTTP status codes. Errors outside the taxonomy are
// server faults and get logged; client faults are the caller's problem.
func (h *Handler) fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, common.ErrValidation), errors.As(err, &verrs):
		status = fiber.StatusBadRequest
	case errors.Is(err, common.ErrNotLoaded):
		status = fiber.StatusServiceUnavailable
	}

	if status == fiber.StatusInternalServerError {
		h.logger.Error(c.Context(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

// badRequest writes a 400 envelope for malformed input that never
// reached the store.
func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
