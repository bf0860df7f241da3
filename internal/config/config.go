// Package config loads runtime configuration from the environment. A
// .env file is honored in development; real environments set variables
// directly.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	JWTSecret  string `env:"JWT_SECRET,required"`
	UploadDir  string `env:"UPLOAD_DIR" envDefault:"./uploads"`

	// StoreBacking selects the persistence backing: "file" or "postgres".
	StoreBacking string `env:"STORE_BACKING" envDefault:"file"`
	// StoreFile is the JSON document path for the file backing.
	StoreFile string `env:"STORE_FILE" envDefault:"./data/db.json"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.StoreBacking != "file" && cfg.StoreBacking != "postgres" {
		return Config{}, fmt.Errorf("STORE_BACKING must be file or postgres, got %q", cfg.StoreBacking)
	}
	if cfg.StoreBacking == "postgres" && cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required when STORE_BACKING=postgres")
	}
	return cfg, nil
}
