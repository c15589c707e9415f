package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// Dialector 按驱动名选择 gorm 方言
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// InitDB 建立连接并按配置执行 AutoMigrate
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.UserFollows{}, &model.Ticket{}, &model.Review{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
