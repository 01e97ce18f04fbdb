package db

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meinhoongagan/marketplace/config"
	"github.com/meinhoongagan/marketplace/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func GetDB() *gorm.DB {
	return DB
}

// Init opens the connection pool and verifies it with a bounded ping.
func Init(cfg config.DatabaseConfig) error {
	if cfg.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	conn, err := gorm.Open(postgres.Open(withConnectTimeout(cfg.URL, cfg.ConnectTimeout)), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   newGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	sqlDB.SetConnMaxIdleTime(cfg.IdleTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	DB = conn
	logger.L().Info("database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Duration("idle_timeout", cfg.IdleTimeout))
	return nil
}

// Ping checks the pool within timeout.
func Ping(ctx context.Context, timeout time.Duration) error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// withConnectTimeout adds connect_timeout to a URL or key=value DSN unless
// the caller already set one.
func withConnectTimeout(dsn string, timeout time.Duration) string {
	if timeout <= 0 || strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	secs := strconv.Itoa(int(timeout.Seconds()))
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("connect_timeout", secs)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return dsn + " connect_timeout=" + secs
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(logger.L()), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
