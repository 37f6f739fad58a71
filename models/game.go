package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Game struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ExternalCode string        `gorm:"size:128;uniqueIndex;not null" json:"external_code"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Image        *string       `gorm:"size:512" json:"image"`
	ProviderID   uint          `gorm:"index;not null" json:"provider_id"`
	Provider     *GameProvider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"provider,omitempty"`
	IsActive     bool          `gorm:"not null;index" json:"is_active"`
	RTP          *float64      `json:"rtp"`

	// Local-only fields; catalog sync never writes them.
	CategoryID *uint         `gorm:"index" json:"category_id"`
	Category   *GameCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	IsFeatured bool          `gorm:"not null;default:false" json:"is_featured"`
	IsNew      bool          `gorm:"not null;default:false" json:"is_new"`
	IsLive     bool          `gorm:"not null;default:false" json:"is_live"`
	IsOriginal bool          `gorm:"not null;default:false" json:"is_original"`

	MinBet     decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"min_bet"`
	MaxBet     decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"max_bet"`
	PlayCount  int64               `gorm:"not null;default:0" json:"play_count"`
	OrderIndex int                 `gorm:"not null;default:0" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
