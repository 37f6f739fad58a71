package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SyncRunning   = "running"
	SyncCompleted = "completed"
	SyncPartial   = "partial"
	SyncFailed    = "failed"
)

type SyncRun struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	Status            string         `gorm:"size:16;not null;index" json:"status"`
	ProvidersUpserted int            `json:"providers_upserted"`
	GamesUpserted     int            `json:"games_upserted"`
	Errors            datatypes.JSON `json:"errors"`
	StartedAt         time.Time      `gorm:"index" json:"started_at"`
	FinishedAt        *time.Time     `json:"finished_at"`
}

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = strings.ToLower(uuid.New().String())
	}
	return nil
}
