// Package db opens the database, applies the schema and loads demo data.
package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jmuseri/facturapp/internal/config"
	"github.com/jmuseri/facturapp/internal/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	slowQuery       = 200 * time.Millisecond
)

// Connect opens the configured database, retrying while postgres starts up.
func Connect(cfg config.DatabaseConfig, log *zap.Logger, level string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.NewGormLogger(log, logger.GormLevel(level), slowQuery)}
	if cfg.Driver == "sqlite" {
		log.Info("opening sqlite database", zap.String("path", cfg.Path))
		return OpenSQLite(cfg.Path, gcfg)
	}

	log.Info("connecting to database",
		zap.String("host", cfg.Host), zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName), zap.String("user", cfg.User))
	var (
		gdb *gorm.DB
		err error
	)
	for i := range connectAttempts {
		gdb, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}
	if err := gdb.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return gdb, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. A nil gcfg
// uses a silent logger.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return gdb, nil
}
