package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/services"
)

// StatusNotConfigured reports a missing server-side integration setting.
const StatusNotConfigured = 599

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	var upstream *services.UpstreamError

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNotFoundAfterProcessing):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrUnsupportedMediaType),
		errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidMatchScore):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &upstream):
		if upstream.Timeout {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrGenerationEmpty):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrNotConfigured):
		return StatusNotConfigured
	default:
		return fiber.StatusInternalServerError
	}
}

func messageFor(err error, code int) string {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid credentials"
	case code == fiber.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// respondError writes the error body and logs server-side failures.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	code := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": messageFor(err, code),
		"code":  code,
	})
}

// ErrorHandler renders errors that escape handlers, including fiber's own.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
				"code":  fe.Code,
			})
		}

		return respondError(c, log, err)
	}
}
