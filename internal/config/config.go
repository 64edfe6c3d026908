package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
}

type ServerConfig struct {
	HTTPPort       string
	Environment    string
	AutoMigrate    bool
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	SecureCookies        bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:       getEnv("HTTP_PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			AutoMigrate:    getEnvAsBool("AUTO_MIGRATE", true),
			AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:8080")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskdeck"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Session: SessionConfig{
			AccessSecret:         getEnv("SESSION_ACCESS_SECRET", getEnv("SESSION_SECRET", "dev-access-secret-change-in-production")),
			RefreshSecret:        getEnv("SESSION_REFRESH_SECRET", getEnv("SESSION_SECRET", "dev-refresh-secret-change-in-production")),
			AccessTokenDuration:  getEnvAsDuration("SESSION_ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("SESSION_REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			SecureCookies:        getEnvAsBool("SESSION_SECURE_COOKIES", false),
		},
	}

	return cfg, nil
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.IsDevelopment() {
		return nil
	}

	if c.Session.AccessSecret == "dev-access-secret-change-in-production" ||
		c.Session.RefreshSecret == "dev-refresh-secret-change-in-production" {
		return fmt.Errorf("default session secrets are not allowed in %s", c.Server.Environment)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
