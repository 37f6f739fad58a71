package controllers

import (
	"errors"
	"log/slog"

	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrInsufficientFunds, fiber.StatusBadRequest, "INSUFFICIENT_FUNDS"},
	{services.ErrBelowMinimum, fiber.StatusBadRequest, "BELOW_MINIMUM_WITHDRAWAL"},
	{services.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{services.ErrInvalidKind, fiber.StatusBadRequest, "INVALID_TRANSACTION_KIND"},
	{services.ErrInvalidDestination, fiber.StatusBadRequest, "PIX_KEY_REQUIRED"},
	{services.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED"},
	{services.ErrPlayerNotFound, fiber.StatusNotFound, "PLAYER_NOT_FOUND"},
	{services.ErrWithdrawalNotFound, fiber.StatusNotFound, "WITHDRAWAL_NOT_FOUND"},
	{services.ErrDepositNotFound, fiber.StatusNotFound, "DEPOSIT_NOT_FOUND"},
	{services.ErrCatalogEntryNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{services.ErrPlayerBlocked, fiber.StatusForbidden, "PLAYER_BLOCKED"},
	{services.ErrAlreadyTerminal, fiber.StatusConflict, "ALREADY_TERMINAL"},
	{services.ErrDuplicateReference, fiber.StatusConflict, "DUPLICATE_REFERENCE"},
	{services.ErrDuplicateDeposit, fiber.StatusConflict, "DUPLICATE_DEPOSIT"},
	{services.ErrPlayerExists, fiber.StatusConflict, "PLAYER_EXISTS"},
	{services.ErrSyncInProgress, fiber.StatusConflict, "SYNC_IN_PROGRESS"},
	{services.ErrBalanceConflict, fiber.StatusConflict, "BALANCE_CONFLICT"},
	{services.ErrDepositExpired, fiber.StatusGone, "DEPOSIT_EXPIRED"},
	{services.ErrInvalidCategory, fiber.StatusBadRequest, "INVALID_CATEGORY"},
	{services.ErrInvalidBonus, fiber.StatusBadRequest, "INVALID_BONUS"},
	{services.ErrBonusNotEligible, fiber.StatusBadRequest, "BONUS_NOT_ELIGIBLE"},
	{services.ErrBonusNotFound, fiber.StatusNotFound, "BONUS_NOT_FOUND"},
	{services.ErrCategoryExists, fiber.StatusConflict, "CATEGORY_EXISTS"},
	{services.ErrBonusCodeExists, fiber.StatusConflict, "BONUS_CODE_EXISTS"},
	{services.ErrBonusAlreadyRedeemed, fiber.StatusConflict, "BONUS_ALREADY_REDEEMED"},
	{services.ErrBonusExhausted, fiber.StatusConflict, "BONUS_EXHAUSTED"},
	{services.ErrBonusInactive, fiber.StatusConflict, "BONUS_INACTIVE"},
	{services.ErrProviderUnconfigured, fiber.StatusServiceUnavailable, "PROVIDER_UNCONFIGURED"},
}

// ServiceError writes the {success:false} envelope for err. Unknown errors
// are logged and answered with a generic 500.
func ServiceError(c *fiber.Ctx, err error) error {
	var launchErr *services.LaunchError
	if errors.As(err, &launchErr) {
		if launchErr.Rejected() {
			return helpers.JSONStatus(c, fiber.StatusBadGateway, launchErr.Message)
		}
		slog.WarnContext(c.UserContext(), "game launch failed", "kind", launchErr.Kind, "error", err)
		return helpers.JSONStatus(c, fiber.StatusBadGateway, "GAME_UNAVAILABLE_TRY_AGAIN")
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return helpers.JSONStatus(c, m.status, m.code)
		}
	}

	slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return helpers.JSONStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
}
