package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/models"
	"casino/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateDepositRequest struct {
	PlayerID   string          `json:"player_id"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	ExternalID string          `json:"external_id"`
	PixCode    string          `json:"pix_code"`
}

// CreateDeposit registers a PIX charge issued by the payment rail.
func CreateDeposit(deposits *services.DepositService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateDepositRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		d, err := deposits.Create(c.UserContext(), services.CreateDepositRequest{
			PlayerID:   req.PlayerID,
			Amount:     req.Amount,
			Fee:        req.Fee,
			ExternalID: req.ExternalID,
			PixCode:    req.PixCode,
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Deposit created", d)
	}
}

func ConfirmDeposit(deposits *services.DepositService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deposits.Confirm(c.UserContext(), c.Params("external_id"))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Deposit confirmed", d)
	}
}

func ListDeposits(deposits *services.DepositService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := deposits.List(c.UserContext(), services.DepositFilter{
			Status:   models.PaymentStatus(c.Query("status")),
			PlayerID: c.Query("player_id"),
			Limit:    c.QueryInt("limit", 50),
			Offset:   c.QueryInt("offset", 0),
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Deposits retrieved successfully", list)
	}
}
