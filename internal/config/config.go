// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a key/value connection string for GORM.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns a postgres:// URL for the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// KafkaConfig holds Kafka broker and consumer group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// FareConfig holds the delivery fare rate table. Rates are business policy
// and deliberately configurable rather than hardcoded.
type FareConfig struct {
	BaseCents  int64
	PerKmCents int64
}

// ServiceConfig holds all configuration for the service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	JWTSecret string
	DB        DatabaseConfig
	Kafka     KafkaConfig
	Fare      FareConfig
}

// Load reads configuration from FASTLANE_-prefixed environment variables,
// falling back to defaults suitable for local development.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("FASTLANE")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fastlane")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "fastlane.")
	v.SetDefault("FARE_BASE_CENTS", 50000)
	v.SetDefault("FARE_PER_KM_CENTS", 15000)

	cfg := &ServiceConfig{
		Port:      ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv:    v.GetString("APP_ENV"),
		JWTSecret: v.GetString("JWT_SECRET"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Fare: FareConfig{
			BaseCents:  v.GetInt64("FARE_BASE_CENTS"),
			PerKmCents: v.GetInt64("FARE_PER_KM_CENTS"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("FASTLANE_JWT_SECRET is required outside development")
	}
	if cfg.Fare.BaseCents < 0 || cfg.Fare.PerKmCents < 0 {
		return nil, fmt.Errorf("fare rates must not be negative")
	}

	return cfg, nil
}
