package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain"
)

// LocalError guarda el error interno para que el logger de requests lo registre.
const LocalError = "error"

type errorMapping struct {
	kind   error
	status int
	code   string
}

// errorTable traduce los errores de dominio a HTTP. El orden importa: el primero que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateName, fiber.StatusConflict, "DUPLICATE_NAME"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrInvalidRate, fiber.StatusBadRequest, "INVALID_RATE"},
	{domain.ErrInvariantViolation, fiber.StatusConflict, "INVARIANT_VIOLATION"},
	{domain.ErrNotCommissionable, fiber.StatusUnprocessableEntity, "NOT_COMMISSIONABLE"},
	{domain.ErrZeroRate, fiber.StatusUnprocessableEntity, "ZERO_RATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con el ErrorResponse correspondiente. Los fallos de persistencia y
// los errores desconocidos se ocultan tras un 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.kind) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	c.Locals(LocalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validation(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
