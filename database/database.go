package database

import (
	"fmt"
	"log/slog"
	"time"

	"casino/config"
	"casino/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.ConnString()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("connected to database")

	if cfg.AutoMigrate {
		slog.Info("starting auto-migration")
		if err := Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("auto-migration completed")
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.GameProvider{},
		&models.GameCategory{},
		&models.Game{},
		&models.Player{},
		&models.Transaction{},
		&models.Withdrawal{},
		&models.Deposit{},
		&models.ApiSetting{},
		&models.SyncRun{},
		&models.Bonus{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
