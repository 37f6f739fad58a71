package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindBet        TransactionKind = "bet"
	KindWin        TransactionKind = "win"
	KindBonus      TransactionKind = "bonus"
	KindRefund     TransactionKind = "refund"
	KindAdjustment TransactionKind = "adjustment"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindBet, KindWin, KindBonus, KindRefund, KindAdjustment:
		return true
	}
	return false
}

const TransactionCompleted = "completed"

var ErrImmutableTransaction = errors.New("ledger transactions are append-only")

// Transaction is one ledger entry. Amount is signed; BalanceBefore + Amount
// always equals BalanceAfter.
type Transaction struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	PlayerID      string          `gorm:"size:36;not null;index" json:"player_id"`
	Player        *Player         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Kind          TransactionKind `gorm:"size:16;not null;uniqueIndex:idx_transactions_kind_reference" json:"kind"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"balance_after"`
	Status        string          `gorm:"size:16;not null" json:"status"`
	ReferenceID   *string         `gorm:"size:128;uniqueIndex:idx_transactions_kind_reference" json:"reference_id"`
	GameCode      *string         `gorm:"size:128" json:"game_code"`
	Metadata      datatypes.JSON  `json:"metadata"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *Transaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
