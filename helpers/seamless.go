package helpers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Seamless wallet callbacks always answer 200; status 1/0 carries the outcome.

func SeamlessSuccess(c *fiber.Ctx, userBalance decimal.Decimal) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       1,
		"user_balance": userBalance.InexactFloat64(),
	})
}

func SeamlessError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       0,
		"user_balance": 0,
		"msg":          msg,
	})
}
