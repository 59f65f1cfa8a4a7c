package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	AppPort        string
	AppEnv         string
	Storage        string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	CurrencyPrefix string
	OwnerUserID    string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         os.Getenv("APP_ENV"),
		Storage:        getEnv("STORAGE", StoragePostgres),
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		CurrencyPrefix: getEnv("CURRENCY_PREFIX", "NT$"),
		OwnerUserID:    os.Getenv("OWNER_USER_ID"),
	}

	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		log.Fatalf("unknown STORAGE value: %s", cfg.Storage)
	}
	if cfg.Storage == StoragePostgres && cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
