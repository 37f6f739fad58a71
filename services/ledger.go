package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casino/helpers"
	"casino/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdjustRequest struct {
	PlayerID string
	// Amount is signed: credits are positive, debits negative.
	Amount      decimal.Decimal
	Kind        models.TransactionKind
	ReferenceID string
	GameCode    string
	Metadata    map[string]any
}

// BalanceLedger is the only writer of players.balance. Every change is a
// locked read, a guarded update and an appended Transaction committed in one
// database transaction.
type BalanceLedger struct {
	db *gorm.DB
}

func NewBalanceLedger(db *gorm.DB) *BalanceLedger {
	return &BalanceLedger{db: db}
}

func (l *BalanceLedger) Adjust(ctx context.Context, req AdjustRequest) (models.Transaction, error) {
	var txn models.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = l.AdjustTx(tx, req)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// AdjustTx applies req inside an open transaction so callers can commit the
// balance change together with their own writes.
func (l *BalanceLedger) AdjustTx(tx *gorm.DB, req AdjustRequest) (models.Transaction, error) {
	if req.Amount.IsZero() || !req.Amount.Equal(req.Amount.Round(2)) {
		return models.Transaction{}, ErrInvalidAmount
	}
	if !req.Kind.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}

	var player models.Player
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", req.PlayerID).
		First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Transaction{}, ErrPlayerNotFound
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("lock player: %w", err)
	}

	before := player.Balance
	after := before.Add(req.Amount)
	if after.IsNegative() {
		return models.Transaction{}, fmt.Errorf("%w: balance %s, amount %s", ErrInsufficientFunds, before.StringFixed(2), req.Amount.StringFixed(2))
	}

	// Compare-and-set on the locked snapshot: the write only lands if the
	// balance is still the one the entry records as BalanceBefore.
	res := tx.Model(&models.Player{}).
		Where("id = ? AND balance = ?", player.ID, before).
		Updates(map[string]any{
			"balance":    after,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrCheckConstraintViolated) || isPgCode(res.Error, pgCheckViolation) {
			return models.Transaction{}, ErrInsufficientFunds
		}
		return models.Transaction{}, fmt.Errorf("update balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Transaction{}, ErrBalanceConflict
	}

	txn := models.Transaction{
		PlayerID:      player.ID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        models.TransactionCompleted,
		ReferenceID:   helpers.NullableString(req.ReferenceID),
		GameCode:      helpers.NullableString(req.GameCode),
	}
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("encode metadata: %w", err)
		}
		txn.Metadata = datatypes.JSON(raw)
	}

	if err := tx.Create(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isPgCode(err, pgUniqueViolation) {
			return models.Transaction{}, fmt.Errorf("%w: %s %s", ErrDuplicateReference, req.Kind, req.ReferenceID)
		}
		return models.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	return txn, nil
}

func (l *BalanceLedger) Balance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var player models.Player
	err := l.db.WithContext(ctx).Select("id", "balance").Where("id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, ErrPlayerNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load balance: %w", err)
	}
	return player.Balance, nil
}

// History returns the newest entries first.
func (l *BalanceLedger) History(ctx context.Context, playerID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var txns []models.Transaction
	err := l.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return txns, nil
}

// FindByReference looks up an applied entry; ok is false when none exists.
func (l *BalanceLedger) FindByReference(tx *gorm.DB, kind models.TransactionKind, referenceID string) (models.Transaction, bool, error) {
	var txn models.Transaction
	err := tx.Where("kind = ? AND reference_id = ?", kind, referenceID).Limit(1).Find(&txn).Error
	if err != nil {
		return models.Transaction{}, false, fmt.Errorf("find transaction: %w", err)
	}
	return txn, txn.ID != "", nil
}
