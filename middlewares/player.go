package middlewares

import (
	"casino/helpers"

	"github.com/gofiber/fiber/v2"
)

const PlayerIDHeader = "X-Player-ID"

// PlayerContext trusts the player id injected by the upstream auth gateway
// and exposes it as Locals("playerID").
func PlayerContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			return helpers.JSONStatus(c, fiber.StatusUnauthorized, "PLAYER_ID_REQUIRED")
		}
		c.Locals("playerID", playerID)
		return c.Next()
	}
}

func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}
