package user

import (
	"casino/controllers"
	"casino/helpers"
	"casino/middlewares"
	"casino/models"
	"casino/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WithdrawRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	PixKey     string          `json:"pix_key"`
	PixKeyType string          `json:"pix_key_type"`
}

func RequestWithdrawal(withdrawals *services.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req WithdrawRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		w, err := withdrawals.Create(c.UserContext(), services.CreateWithdrawalRequest{
			PlayerID:   middlewares.PlayerID(c),
			Amount:     req.Amount,
			PixKey:     req.PixKey,
			PixKeyType: req.PixKeyType,
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}

		return helpers.JSONSuccess(c, "Withdrawal requested successfully", w)
	}
}

func ListWithdrawals(withdrawals *services.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := withdrawals.List(c.UserContext(), services.WithdrawalFilter{
			PlayerID: middlewares.PlayerID(c),
			Status:   models.PaymentStatus(c.Query("status")),
			Limit:    c.QueryInt("limit", 50),
			Offset:   c.QueryInt("offset", 0),
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Withdrawals retrieved successfully", list)
	}
}
