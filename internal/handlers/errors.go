package handlers

import (
	"errors"

	"showroom/internal/handlers/middleware"
	"showroom/internal/repositories"
	"showroom/internal/types"
	"showroom/pkg/pagination"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps domain errors to HTTP status; anything unclassified is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, types.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrInvalidTransition):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the flat error body. Server-side causes are logged and replaced by a generic message.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status := statusFor(err)
	if status < fiber.StatusInternalServerError {
		log.Debug("request rejected", "path", c.Path(), "status", status, "error", err.Error(), "traceID", middleware.GetTraceID(c))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	log.Er("request failed", err, "path", c.Path(), "method", c.Method(), "traceID", middleware.GetTraceID(c))

	message := "internal server error"
	if errors.Is(err, types.ErrConfiguration) {
		message = types.ErrConfiguration.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, types.Validation("invalid %s", param)
	}
	return id, nil
}

func pageOf(params pagination.Params) repositories.Page {
	return repositories.Page{Offset: params.Offset, Limit: params.Limit}
}
