package user

import (
	"casino/controllers"
	"casino/helpers"
	"casino/middlewares"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type RedeemBonusRequest struct {
	Code string `json:"code"`
}

func RedeemBonus(bonuses *services.BonusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RedeemBonusRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		txn, err := bonuses.Redeem(c.UserContext(), middlewares.PlayerID(c), req.Code)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Bonus credited", txn)
	}
}
