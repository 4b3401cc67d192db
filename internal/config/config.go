package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DatabasePath    string
	MediaRoot       string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func Load() *Config {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:            getEnv("CABLE_ADDR", ":8080"),
		DatabasePath:    getEnv("CABLE_DB", "cable.db"),
		MediaRoot:       getEnv("CABLE_MEDIA_ROOT", "media"),
		JWTSecret:       getEnv("CABLE_JWT_SECRET", ""),
		AccessTokenTTL:  getEnvAsDuration("CABLE_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvAsDuration("CABLE_REFRESH_TOKEN_TTL", 30*24*time.Hour),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("CABLE_JWT_SECRET environment variable is required")
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
