package user

import (
	"casino/controllers"
	"casino/helpers"
	"casino/middlewares"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

func CheckBalance(ledger *services.BalanceLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		balance, err := ledger.Balance(c.UserContext(), middlewares.PlayerID(c))
		if err != nil {
			return controllers.ServiceError(c, err)
		}

		return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
			"balance": balance,
		})
	}
}

func ListTransactions(ledger *services.BalanceLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txns, err := ledger.History(c.UserContext(), middlewares.PlayerID(c), c.QueryInt("limit", 50))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Transactions retrieved successfully", txns)
	}
}

func ListDeposits(deposits *services.DepositService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := deposits.ListForPlayer(c.UserContext(), middlewares.PlayerID(c), c.QueryInt("limit", 50))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Deposits retrieved successfully", list)
	}
}
