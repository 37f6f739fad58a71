package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerBlocked        = errors.New("player is blocked")
	ErrProviderUnconfigured = errors.New("aggregator credentials are not configured")

	ErrInvalidAmount      = errors.New("amount must be non-zero with at most two decimals")
	ErrInvalidKind        = errors.New("unknown transaction kind")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDuplicateReference = errors.New("transaction reference already recorded")
	ErrBalanceConflict    = errors.New("balance changed concurrently")

	ErrBelowMinimum         = errors.New("amount is below the minimum withdrawal")
	ErrInvalidDestination   = errors.New("pix key is required")
	ErrReasonRequired       = errors.New("a rejection reason is required")
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrAlreadyTerminal      = errors.New("already in a terminal state")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrDepositExpired       = errors.New("deposit has expired")
	ErrDuplicateDeposit     = errors.New("deposit external id already exists")
	ErrSyncInProgress       = errors.New("catalog sync already in progress")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrCategoryExists       = errors.New("category slug already exists")
	ErrInvalidCategory      = errors.New("category name is required")

	ErrInvalidBonus         = errors.New("invalid bonus definition")
	ErrBonusNotFound        = errors.New("bonus not found")
	ErrBonusCodeExists      = errors.New("bonus code already exists")
	ErrBonusInactive        = errors.New("bonus is not active")
	ErrBonusExhausted       = errors.New("bonus has reached its maximum uses")
	ErrBonusNotEligible     = errors.New("no qualifying deposit for this bonus")
	ErrBonusAlreadyRedeemed = errors.New("bonus already redeemed by this player")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
