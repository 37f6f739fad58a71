package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsStore reads aggregator credentials from api_settings. Nothing is
// cached: each call sees the latest row.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context, provider string) (models.ApiSetting, error) {
	var setting models.ApiSetting
	err := s.db.WithContext(ctx).Where("provider = ?", strings.ToLower(provider)).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ApiSetting{}, fmt.Errorf("%w: no settings for %q", ErrProviderUnconfigured, provider)
	}
	if err != nil {
		return models.ApiSetting{}, fmt.Errorf("load settings: %w", err)
	}
	return setting, nil
}

// Load returns settings usable for aggregator calls: the row must be active
// and carry both the agent token and the secret key.
func (s *SettingsStore) Load(ctx context.Context, provider string) (models.ApiSetting, error) {
	setting, err := s.Get(ctx, provider)
	if err != nil {
		return models.ApiSetting{}, err
	}
	if !setting.Configured() {
		return models.ApiSetting{}, fmt.Errorf("%w: %q is inactive or missing credentials", ErrProviderUnconfigured, provider)
	}
	return setting, nil
}

// Save upserts the settings row keyed by provider name.
func (s *SettingsStore) Save(ctx context.Context, setting models.ApiSetting) (models.ApiSetting, error) {
	setting.Provider = strings.ToLower(strings.TrimSpace(setting.Provider))
	if setting.Provider == "" {
		return models.ApiSetting{}, errors.New("provider name is required")
	}
	setting.ID = 0

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"agent_token", "secret_key", "webhook_url", "rtp_default", "is_active",
			"agent_code", "agent_secret", "updated_at",
		}),
	}).Create(&setting).Error
	if err != nil {
		return models.ApiSetting{}, fmt.Errorf("save settings: %w", err)
	}

	return s.Get(ctx, setting.Provider)
}
