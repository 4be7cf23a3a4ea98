// ABOUTME: Application configuration loaded from environment variables
// ABOUTME: Supports .env files via godotenv; defaults keep local dev working
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config carries everything the handlers need. It is built once in main and
// passed down explicitly; nothing reads the environment after Load.
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	// RedirectBaseURL is the public base of this service; the OAuth redirect
	// URI is RedirectBaseURL + "/api/google/oauth".
	RedirectBaseURL string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	// Missing .env is fine; real deployments set variables directly
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", defaultDBPath()),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectBaseURL:    getEnv("REDIRECT_BASE_URL", "http://localhost:8080"),
	}
}

func defaultDBPath() string {
	return filepath.Join(xdg.DataHome, "pastoral-hub", "pastoral.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
