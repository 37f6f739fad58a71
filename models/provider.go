package models

import "time"

// GameProvider mirrors a remote aggregator provider. ExternalID is the
// aggregator's numeric code; ID is local and never changes once assigned.
type GameProvider struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID int64     `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Slug       string    `gorm:"size:128;index" json:"slug"`
	Logo       *string   `gorm:"size:512" json:"logo"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Games []Game `gorm:"foreignKey:ProviderID" json:"-"`
}
