// Package connection opens the external resources the API depends on.
// Both dialers retry briefly so the service survives a dependency that
// is still starting.
package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// OpenPostgres connects with retries and returns a configured *gorm.DB.
func OpenPostgres(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(5)
			sqlDB.SetConnMaxLifetime(time.Hour)
			return db, nil
		}

		lastErr = err
		logger.Warn("postgres connection failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(dialBackoff)
	}
	return nil, fmt.Errorf("connect postgres after %d attempts: %w", dialAttempts, lastErr)
}

// OpenRedis connects and pings with retries. Returns nil without error
// when no address is configured; callers treat a nil client as
// "idempotency disabled".
func OpenRedis(addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err == nil {
			return client, nil
		}

		lastErr = err
		logger.Warn("redis ping failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(dialBackoff)
	}
	return nil, fmt.Errorf("connect redis after %d attempts: %w", dialAttempts, lastErr)
}
