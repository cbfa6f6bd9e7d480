package mysql

import (
	"context"
	"fmt"
	"time"

	"resort/config"
	"resort/domain/catalog"
	"resort/infrastructure/persistence/mysql/po"
	"resort/infrastructure/persistence/seed"
	"resort/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

type Config struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        string
}

// FromAppConfig copies the database section of the application config.
func FromAppConfig(cfg config.DatabaseConfig) *Config {
	return &Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Username:        cfg.Username,
		Password:        cfg.Password,
		Database:        cfg.Database,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogLevel:        cfg.LogLevel,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
}

func (c *Config) Connect() (*gorm.DB, error) {
	c.applyDefaults()
	gormConfig := &gorm.Config{
		Logger:         logger.NewGormLoggerAdapter(logger.ParseGormLevel(c.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(mysql.Open(c.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
		zap.Duration("conn_max_lifetime", c.ConnMaxLifetime),
	)

	return db, nil
}

// Ping checks an open connection, used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Models lists every table the booking core owns.
func Models() []interface{} {
	return []interface{}{
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.RoomTypePO{},
		&po.BookedRangePO{},
		&po.GamePO{},
		&po.OutboxEventPO{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedCatalog inserts the starting rooms and games; rows that already exist
// are left untouched.
func SeedCatalog(ctx context.Context, db *gorm.DB, currency string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dto := range seed.Rooms(currency) {
			if err := seedRoom(tx, dto); err != nil {
				return err
			}
		}
		for _, dto := range seed.Games(currency) {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(po.FromGameDTO(dto)).Error; err != nil {
				return fmt.Errorf("failed to seed game %s: %w", dto.ID, err)
			}
		}
		logger.Info("Catalog seeded", zap.String("currency", currency))
		return nil
	})
}

func seedRoom(tx *gorm.DB, dto catalog.RoomReconstructionDTO) error {
	roomPO, ranges, err := po.FromRoomDTO(dto)
	if err != nil {
		return err
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(roomPO)
	if result.Error != nil {
		return fmt.Errorf("failed to seed room %s: %w", dto.ID, result.Error)
	}
	if result.RowsAffected > 0 && len(ranges) > 0 {
		return tx.Create(&ranges).Error
	}
	return nil
}
