package user

import (
	"casino/controllers"
	"casino/helpers"
	"casino/middlewares"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type LaunchGameRequest struct {
	GameCode string `json:"game_code"`
}

func LaunchGameHandler(gateway *services.GameLaunchGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LaunchGameRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		if req.GameCode == "" {
			return helpers.JSONError(c, "GAME_CODE_REQUIRED")
		}

		res, err := gateway.Launch(c.UserContext(), middlewares.PlayerID(c), req.GameCode)
		if err != nil {
			return controllers.ServiceError(c, err)
		}

		return helpers.JSONSuccess(c, "Game launched successfully", res)
	}
}
