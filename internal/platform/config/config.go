package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront needs at startup. The backend is
// chosen once here: a non-empty DATABASE_DSN selects Postgres, otherwise the
// catalog falls back to the local JSON file.
type Config struct {
	ListenAddr  string
	DatabaseDSN string
	DataFile    string
	UploadsDir  string

	AdminUser string
	AdminPass string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:  ":" + GetEnv("SERVER_PORT", "3000"),
		DatabaseDSN: GetEnv("DATABASE_DSN", ""),
		DataFile:    GetEnv("DATA_FILE", "data/products.json"),
		UploadsDir:  GetEnv("UPLOADS_DIR", "public/uploads"),
		AdminUser:   GetEnv("ADMIN_USER", "admin"),
		AdminPass:   GetEnv("ADMIN_PASS", "rawthreads2024"),
	}
}

// UseDatabase reports whether the remote store is configured.
func (c Config) UseDatabase() bool {
	return c.DatabaseDSN != ""
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
