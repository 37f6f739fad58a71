package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/models"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type RejectWithdrawalRequest struct {
	Reason string `json:"reason"`
}

func ListWithdrawals(withdrawals *services.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := withdrawals.List(c.UserContext(), services.WithdrawalFilter{
			Status:   models.PaymentStatus(c.Query("status")),
			PlayerID: c.Query("player_id"),
			Limit:    c.QueryInt("limit", 50),
			Offset:   c.QueryInt("offset", 0),
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Withdrawals retrieved successfully", list)
	}
}

func ApproveWithdrawal(withdrawals *services.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operator, _ := c.Locals("operator").(string)
		w, err := withdrawals.Approve(c.UserContext(), c.Params("id"), operator)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Withdrawal approved", w)
	}
}

func RejectWithdrawal(withdrawals *services.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RejectWithdrawalRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		w, err := withdrawals.Reject(c.UserContext(), c.Params("id"), req.Reason)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Withdrawal rejected and refunded", w)
	}
}
