package playfivers

import (
	"errors"
	"log/slog"

	"casino/helpers"
	"casino/providers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type GameCallbackRequest struct {
	UserCode string     `json:"user_code"`
	GameType string     `json:"game_type"`
	Slot     SlotDetail `json:"slot"`
}

type SlotDetail struct {
	ProviderCode    string                   `json:"provider_code"`
	GameCode        providers.FlexibleString `json:"game_code"`
	RoundID         providers.FlexibleString `json:"round_id"`
	IsRoundFinished bool                     `json:"is_round_finished"`
	Bet             providers.FlexibleString `json:"bet"`
	Win             providers.FlexibleString `json:"win"`
	TxnID           providers.FlexibleString `json:"txn_id"`
	TxnType         string                   `json:"txn_type"`
}

func ProcessGameCallback(wallet *services.SeamlessWallet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GameCallbackRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.SeamlessError(c, "INVALID_JSON")
		}

		bet, err := req.Slot.Bet.Decimal()
		if err != nil {
			return helpers.SeamlessError(c, "INVALID_BET_AMOUNT")
		}
		win, err := req.Slot.Win.Decimal()
		if err != nil {
			return helpers.SeamlessError(c, "INVALID_WIN_AMOUNT")
		}

		balance, err := wallet.Apply(c.UserContext(), services.GameEvent{
			UserCode:     req.UserCode,
			TxnID:        req.Slot.TxnID.String(),
			TxnType:      req.Slot.TxnType,
			Bet:          bet,
			Win:          win,
			GameCode:     req.Slot.GameCode.String(),
			RoundID:      req.Slot.RoundID.String(),
			ProviderCode: req.Slot.ProviderCode,
		})
		switch {
		case err == nil:
			return helpers.SeamlessSuccess(c, balance)
		case errors.Is(err, services.ErrInsufficientFunds):
			return helpers.SeamlessError(c, "INSUFFICIENT_USER_FUNDS")
		case errors.Is(err, services.ErrPlayerNotFound):
			return helpers.SeamlessError(c, "USER_NOT_FOUND")
		case errors.Is(err, services.ErrPlayerBlocked):
			return helpers.SeamlessError(c, "USER_BLOCKED")
		case errors.Is(err, services.ErrUnknownTxnType):
			return helpers.SeamlessError(c, "INVALID_TXN_TYPE")
		case errors.Is(err, services.ErrMissingTxnID), errors.Is(err, services.ErrInvalidAmount):
			return helpers.SeamlessError(c, "INVALID_PARAMETER")
		default:
			slog.ErrorContext(c.UserContext(), "game callback failed",
				"user_code", req.UserCode,
				"txn_id", req.Slot.TxnID.String(),
				"error", err,
			)
			return helpers.SeamlessError(c, "INTERNAL_ERROR")
		}
	}
}
