package playfivers

import (
	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type UserBalanceRequest struct {
	UserCode string `json:"user_code"`
}

func CheckUserBalance(wallet *services.SeamlessWallet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UserBalanceRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.SeamlessError(c, "INVALID_JSON")
		}

		balance, err := wallet.Balance(c.UserContext(), req.UserCode)
		if err != nil {
			return helpers.SeamlessError(c, "INVALID_USER")
		}

		return helpers.SeamlessSuccess(c, balance)
	}
}
