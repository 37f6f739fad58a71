package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/models"
	"casino/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AdjustBalanceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	ReferenceID string          `json:"reference_id"`
	Note        string          `json:"note"`
}

type BlockPlayerRequest struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

func RegisterPlayer(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.RegisterPlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		p, err := players.Register(c.UserContext(), req)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Player registered successfully", p)
	}
}

func ListPlayers(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := players.List(c.UserContext(), services.PlayerFilter{
			Blocked: helpers.QueryOptionalBool(c, "blocked"),
			Search:  c.Query("q"),
			Limit:   c.QueryInt("limit", 50),
			Offset:  c.QueryInt("offset", 0),
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Players retrieved successfully", list)
	}
}

func GetPlayer(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := players.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Player retrieved successfully", p)
	}
}

func BlockPlayer(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req BlockPlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		p, err := players.SetBlocked(c.UserContext(), c.Params("id"), req.Blocked, req.Reason)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Player updated successfully", p)
	}
}

// AdjustBalance lets an operator credit or debit a player. Kind defaults to
// adjustment; bonus grants use kind "bonus".
func AdjustBalance(ledger *services.BalanceLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AdjustBalanceRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		kind := models.TransactionKind(req.Kind)
		if kind == "" {
			kind = models.KindAdjustment
		}
		if kind != models.KindAdjustment && kind != models.KindBonus {
			return helpers.JSONError(c, "INVALID_TRANSACTION_KIND")
		}

		operator, _ := c.Locals("operator").(string)
		metadata := map[string]any{"operator": operator}
		if req.Note != "" {
			metadata["note"] = req.Note
		}

		txn, err := ledger.Adjust(c.UserContext(), services.AdjustRequest{
			PlayerID:    c.Params("id"),
			Amount:      req.Amount,
			Kind:        kind,
			ReferenceID: req.ReferenceID,
			Metadata:    metadata,
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Balance adjusted successfully", txn)
	}
}
