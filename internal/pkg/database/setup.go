package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// Config holds the MySQL connection settings.
type Config struct {
	User        string
	Password    string
	Host        string
	Port        string
	Name        string
	AutoMigrate bool
}

func LoadConfig() Config {
	return Config{
		User:        env.GetEnv("DB_USER", "appfolio"),
		Password:    env.GetEnv("DB_PASSWORD", ""),
		Host:        env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:        env.GetEnv("DB_PORT", "3306"),
		Name:        env.GetEnv("DB_NAME", "appfolio"),
		AutoMigrate: env.GetEnv("DB_AUTO_MIGRATE", "") == "true" || env.IsDev(),
	}
}

// DSN returns the go-sql-driver data source name. clientFoundRows makes
// RowsAffected count matched rows, so an update that changes nothing still
// reports the row it found.
func (c Config) DSN() string {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// MigrateURL returns the URL golang-migrate expects for the same database.
func (c Config) MigrateURL() string {
	return "mysql://" + c.DSN() + "&multiStatements=true"
}

// Open connects with retries and, when enabled, auto-migrates the models.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.DSN(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&models.Account{}, &models.Application{}); err != nil {
			_ = Close(db)
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
