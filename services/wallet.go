package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TxnDebit       = "debit"
	TxnCredit      = "credit"
	TxnDebitCredit = "debit_credit"
)

var (
	ErrUnknownTxnType = errors.New("unknown txn_type")
	ErrMissingTxnID   = errors.New("txn_id is required")
)

// GameEvent is one seamless-wallet callback from the aggregator. Bet and Win
// are non-negative; the wallet applies the bet as a debit.
type GameEvent struct {
	UserCode     string
	TxnID        string
	TxnType      string
	Bet          decimal.Decimal
	Win          decimal.Decimal
	GameCode     string
	RoundID      string
	ProviderCode string
}

// SeamlessWallet applies in-game bets and wins through the ledger. Each leg
// is keyed by (kind, txn_id), so a redelivered callback is answered with the
// current balance without being applied twice.
type SeamlessWallet struct {
	db      *gorm.DB
	ledger  *BalanceLedger
	players *PlayerService
}

func NewSeamlessWallet(db *gorm.DB, ledger *BalanceLedger, players *PlayerService) *SeamlessWallet {
	return &SeamlessWallet{db: db, ledger: ledger, players: players}
}

func (w *SeamlessWallet) Balance(ctx context.Context, userCode string) (decimal.Decimal, error) {
	player, err := w.players.GetByUserCode(ctx, userCode)
	if err != nil {
		return decimal.Zero, err
	}
	return player.Balance, nil
}

type walletLeg struct {
	kind   models.TransactionKind
	amount decimal.Decimal
}

func (w *SeamlessWallet) Apply(ctx context.Context, ev GameEvent) (decimal.Decimal, error) {
	txnID := strings.TrimSpace(ev.TxnID)
	if txnID == "" {
		return decimal.Zero, ErrMissingTxnID
	}
	if ev.Bet.IsNegative() || ev.Win.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}

	var legs []walletLeg
	switch ev.TxnType {
	case TxnDebit:
		legs = []walletLeg{{models.KindBet, ev.Bet.Neg()}}
	case TxnCredit:
		legs = []walletLeg{{models.KindWin, ev.Win}}
	case TxnDebitCredit:
		legs = []walletLeg{{models.KindBet, ev.Bet.Neg()}, {models.KindWin, ev.Win}}
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownTxnType, ev.TxnType)
	}

	player, err := w.players.GetByUserCode(ctx, ev.UserCode)
	if err != nil {
		return decimal.Zero, err
	}
	if player.IsBlocked && ev.Bet.IsPositive() {
		return decimal.Zero, ErrPlayerBlocked
	}

	metadata := map[string]any{"txn_type": ev.TxnType}
	if ev.RoundID != "" {
		metadata["round_id"] = ev.RoundID
	}
	if ev.ProviderCode != "" {
		metadata["provider_code"] = ev.ProviderCode
	}

	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, leg := range legs {
			if leg.amount.IsZero() {
				continue
			}
			_, applied, err := w.ledger.FindByReference(tx, leg.kind, txnID)
			if err != nil {
				return err
			}
			if applied {
				continue
			}
			if _, err := w.ledger.AdjustTx(tx, AdjustRequest{
				PlayerID:    player.ID,
				Amount:      leg.amount,
				Kind:        leg.kind,
				ReferenceID: txnID,
				GameCode:    ev.GameCode,
				Metadata:    metadata,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	// A concurrent delivery of the same callback won the insert race.
	if err != nil && !errors.Is(err, ErrDuplicateReference) {
		return decimal.Zero, err
	}

	return w.ledger.Balance(ctx, player.ID)
}
