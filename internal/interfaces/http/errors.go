package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		return c.Status(validationStatus(ve.Rule)).JSON(dto.ErrorResponse{
			Code:        ve.Rule,
			Message:     ve.Message,
			ContainerID: ve.ContainerID,
			Rule:        ve.Rule,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func validationStatus(rule string) int {
	switch rule {
	case domain.RuleSSCCFormat, domain.RuleIncoterm:
		return fiber.StatusBadRequest
	case domain.RuleInvalidTransition, domain.RuleNotDraft, domain.RuleFieldLocked:
		return fiber.StatusConflict
	}
	return fiber.StatusUnprocessableEntity
}
