package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis backs the session store when RedisHost is set; otherwise sessions live in cookies.
	RedisHost string
	RedisPort string

	SessionSecret string
	JWTSecret     string
	JWTExpiry     time.Duration

	GinMode     string
	Port        string
	CORSOrigins []string
	SentryDSN   string

	AuthRateLimit int
	AuthRateBurst int

	// Bootstrap superadmin, created at startup when both are set and the email is unknown.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// ExposeResetTokens returns password reset tokens in the API response (no mailer yet).
	ExposeResetTokens bool
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "dezx"),
		DBPassword: getEnv("DB_PASSWORD", "dezxpassword"),
		DBName:     getEnv("DB_NAME", "dezx"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", ""),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:     getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		JWTExpiry:     parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		GinMode:     getEnv("GIN_MODE", "debug"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: parseCSV(getEnv("CORS_ORIGINS", "*")),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "5"), 5),
		AuthRateBurst: parseInt(getEnv("AUTH_RATE_BURST", "10"), 10),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Super Admin"),

		ExposeResetTokens: getEnv("EXPOSE_RESET_TOKENS", "false") == "true",
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
