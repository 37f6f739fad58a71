package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Terminal() bool {
	return s != StatusPending
}

type Withdrawal struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	PlayerID       string          `gorm:"size:36;not null;index" json:"player_id"`
	Player         *Player         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Fee            decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"fee"`
	Status         PaymentStatus   `gorm:"size:16;not null;index" json:"status"`
	PixKey         string          `gorm:"size:255;not null" json:"pix_key"`
	PixKeyType     string          `gorm:"size:32" json:"pix_key_type"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	ApprovedBy     *string         `gorm:"size:128" json:"approved_by"`
	RejectedReason *string         `gorm:"size:512" json:"rejected_reason"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type Deposit struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	PlayerID    string          `gorm:"size:36;not null;index" json:"player_id"`
	Player      *Player         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Fee         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"fee"`
	Status      PaymentStatus   `gorm:"size:16;not null;index" json:"status"`
	ExternalID  string          `gorm:"size:128;uniqueIndex;not null" json:"external_id"`
	PixCode     *string         `gorm:"type:text" json:"pix_code"`
	ExpiresAt   time.Time       `gorm:"index" json:"expires_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
