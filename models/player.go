package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Player struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserCode string `gorm:"uniqueIndex;size:64;not null" json:"user_code"`
	Email    string `gorm:"size:255;index" json:"email"`
	Name     string `gorm:"size:128" json:"name"`

	// Balance is only ever written by the ledger.
	Balance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0;check:chk_players_balance_non_negative,balance >= 0" json:"balance"`

	IsBlocked     bool    `gorm:"not null;default:false" json:"is_blocked"`
	BlockedReason *string `gorm:"size:255" json:"blocked_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UserCode == "" {
		p.UserCode = strings.ReplaceAll(p.ID, "-", "")
	}
	return nil
}
