package models

import "time"

type GameCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Slug       string    `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Icon       *string   `gorm:"size:255" json:"icon"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
