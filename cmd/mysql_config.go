package cmd

import (
	"context"
	"fmt"

	"resort/config"
	"resort/infrastructure/persistence/mysql"
	"resort/pkg/logger"

	"gorm.io/gorm"
)

// OpenMySQL connects, pings and prepares the schema the way cfg asks:
// AutoMigrate creates the tables, SeedCatalog inserts the starting rooms and
// games. Both server and worker use it.
func OpenMySQL(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := mysql.FromAppConfig(cfg.Database).Connect()
	if err != nil {
		return nil, err
	}

	if err := mysql.Ping(ctx, db); err != nil {
		_ = closeGorm(db)
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = closeGorm(db)
			return nil, err
		}
		logger.Info("Database schema migrated")
	}
	if cfg.Database.SeedCatalog {
		if err := mysql.SeedCatalog(ctx, db, cfg.Booking.Currency); err != nil {
			_ = closeGorm(db)
			return nil, err
		}
	}

	return db, nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
