package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	Host        string
	DatabaseURL string

	// Store backend: "mysql" (default) or "memory" for a dependency-free
	// dev mode.
	StoreBackend string

	// JWT Settings
	JWTSecret string

	// Upload Settings
	UploadDir string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	config := &Config{
		AppPort:      envOr("PORT", "8080"),
		Host:         envOr("HOST", "0.0.0.0"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StoreBackend: envOr("STORE_BACKEND", "mysql"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadDir:    envOr("UPLOAD_DIR", "./uploads"),
	}

	return config
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
