package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/domain"
)

// writeError traduce errores de dominio a respuestas JSON.
func writeError(c *fiber.Ctx, err error) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   verr.Error(),
			Code:    "VALIDATION",
			Details: verr.Violations,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Code: "VALIDATION"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "invoice not found", Code: "NOT_FOUND"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error(), Code: "INTERNAL"})
	}
}

// errorHandler respuesta JSON para errores que escapan de los handlers (incluidos los de fiber).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
}
