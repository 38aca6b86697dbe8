package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
}

// Load reads configuration from the environment, with a .env file as an
// optional local override source.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:      getenv("PORT", "8080"),
		DBPath:    getenv("DB_PATH", "./budget.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
