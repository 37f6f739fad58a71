package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BonusValueType string

const (
	BonusPercent BonusValueType = "percent"
	BonusFixed   BonusValueType = "fixed"
)

func (t BonusValueType) Valid() bool {
	return t == BonusPercent || t == BonusFixed
}

// Bonus is an operator-defined campaign redeemed by code against the
// player's latest confirmed deposit.
type Bonus struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	Type        string          `gorm:"size:32;not null;default:deposit" json:"type"`
	Value       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"value"`
	ValueType   BonusValueType  `gorm:"size:16;not null;default:percent" json:"value_type"`
	Code        *string         `gorm:"size:64;uniqueIndex" json:"code"`
	MinDeposit  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"min_deposit"`

	// Zero means uncapped.
	MaxBonus            decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"max_bonus"`
	WageringRequirement int             `gorm:"not null;default:0" json:"wagering_requirement"`
	ValidDays           int             `gorm:"not null;default:0" json:"valid_days"`
	IsActive            bool            `gorm:"not null;default:true" json:"is_active"`
	MaxUses             *int            `json:"max_uses"`
	CurrentUses         int             `gorm:"not null;default:0" json:"current_uses"`
	CreatedAt           time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (b *Bonus) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
