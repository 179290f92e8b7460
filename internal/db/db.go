// Package db opens the relational backends, applies the schema and seeds the
// demo account.
package db

import (
	"fmt"
	"regexp"
	"time"

	"github.com/diewo77/clientpath/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)`)

// retryDelay is the pause between connection attempts.
var retryDelay = 2 * time.Second

// Open connects to the configured driver, retrying while the server starts up.
func Open(cfg config.DatabaseConfig, lg *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	var target string
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
		target = passwordRe.ReplaceAllString(cfg.DSN(), `${1}***`)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
		target = cfg.SQLitePath
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	var conn *gorm.DB
	var err error
	for i := 1; i <= attempts; i++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		lg.Warnw("database connection failed", "attempt", i, "of", attempts, "err", err)
		if i < attempts {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s after %d attempts: %w", cfg.Driver, attempts, err)
	}

	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	lg.Infow("database connected", "driver", cfg.Driver, "dsn", target)
	return conn, nil
}
