package models

import "gorm.io/gorm"

// ApiSetting holds aggregator credentials. Rows are read on every sync and
// launch so rotated credentials apply without a restart.
type ApiSetting struct {
	gorm.Model

	Provider   string   `gorm:"size:64;uniqueIndex;not null" json:"provider"`
	AgentToken string   `gorm:"size:255" json:"agent_token"`
	SecretKey  string   `gorm:"size:255" json:"secret_key"`
	WebhookURL *string  `gorm:"size:512" json:"webhook_url"`
	RTPDefault *float64 `json:"rtp_default"`
	IsActive   bool     `gorm:"not null" json:"is_active"`

	// Credentials the aggregator presents on seamless wallet callbacks.
	AgentCode   string `gorm:"size:128" json:"agent_code"`
	AgentSecret string `gorm:"size:255" json:"agent_secret"`
}

func (s ApiSetting) Configured() bool {
	return s.IsActive && s.AgentToken != "" && s.SecretKey != ""
}
