package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	JWT         JWTConfig
	SMTP        SMTPConfig
	Uploads     UploadsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig backs the auth capability: verify(token) -> principal{id, role}
type JWTConfig struct {
	Secret string
}

// SMTPConfig drives the email notifier; empty Host means emails are logged
// instead of sent (dev mode)
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// UploadsConfig is where payment-proof images are written
type UploadsConfig struct {
	Dir     string
	BaseURL string
}

func Load() (*Config, error) {
	// .env is optional; real env vars always win
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("UPLOADS_DIR", "./uploads")
	viper.SetDefault("UPLOADS_BASE_URL", "/uploads")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: strings.TrimSpace(getEnvOrViper("JWT_SECRET", "")),
		},
		SMTP: SMTPConfig{
			Host: strings.TrimSpace(getEnvOrViper("SMTP_HOST", "")),
			Port: viper.GetInt("SMTP_PORT"),
			User: strings.TrimSpace(getEnvOrViper("SMTP_USER", "")),
			Pass: getEnvOrViper("SMTP_PASS", ""),
			From: strings.TrimSpace(getEnvOrViper("EMAIL_FROM", "no-reply@roboticsleb.local")),
		},
		Uploads: UploadsConfig{
			Dir:     getEnvOrViper("UPLOADS_DIR", "./uploads"),
			BaseURL: getEnvOrViper("UPLOADS_BASE_URL", "/uploads"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
