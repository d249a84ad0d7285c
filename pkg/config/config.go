package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogMode     string

	DBMaxConns   int
	// ReadyTimeout bounds each dependency check behind /ready.
	ReadyTimeout time.Duration

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SummaryCacheTTL time.Duration

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// TaxonomyPath points to a YAML skill taxonomy; empty uses the embedded default table.
	TaxonomyPath           string
	DefaultRequiredLevel   int
	PreferredRequiredLevel int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogMode:     getEnv("LOG_MODE", "dev"),

		DBMaxConns:   getEnvInt("DB_MAX_CONNS", 10),
		ReadyTimeout: time.Duration(getEnvInt("READY_TIMEOUT_MS", 1000)) * time.Millisecond,

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SummaryCacheTTL: time.Duration(getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 30)) * time.Second,

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "growth-service"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		TaxonomyPath:           os.Getenv("TAXONOMY_PATH"),
		DefaultRequiredLevel:   clampLevel(getEnvInt("DEFAULT_REQUIRED_LEVEL", 70), 70),
		PreferredRequiredLevel: clampLevel(getEnvInt("PREFERRED_REQUIRED_LEVEL", 50), 50),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// levels outside 1..100 fall back to the default
func clampLevel(v, def int) int {
	if v <= 0 || v > 100 {
		return def
	}
	return v
}
