// Package handlers maps the pipeline onto the HTTP boundary. Handlers are
// the only place error kinds become status codes.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vocalab/speech-coach/internal/apperr"
)

// respondError classifies err and writes the {error, details} failure body
// with the status the taxonomy dictates.
func respondError(c *fiber.Ctx, err error) error {
	ae := apperr.From(err)

	details := ""
	if cause := ae.Unwrap(); cause != nil {
		details = cause.Error()
	}

	evt := log.Error().Str("code", ae.Code).Int("status", ae.Status)
	if ae.Cause != nil {
		evt = evt.Err(ae.Cause)
	}
	evt.Msg(ae.Message)

	return c.Status(ae.Status).JSON(fiber.Map{
		"error":   ae.Message,
		"details": details,
		"code":    ae.Code,
	})
}

// methodNotAllowed writes the 405 body with the received method echoed.
func methodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error":          "Method not allowed",
		"receivedMethod": c.Method(),
		"allowedMethods": []string{fiber.MethodPost, fiber.MethodOptions},
	})
}
