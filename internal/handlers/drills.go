package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vocalab/speech-coach/internal/drills"
)

// ListDrills serves GET /drills: the read-only drill catalog, so clients
// need not hard-code the profile table.
func ListDrills(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"drills": drills.All()})
}
