package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer  string // Issuer claim for session tokens (default: waypoint-console)
	BaseURL string // Public base URL used in invitation and verification links (default: http://localhost:8080)

	DatabaseFile string // Path to SQLite database file (default: ./console.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	InviteTTL       time.Duration // Invitation token lifetime (default: 24h)
	SessionTTL      time.Duration // Console session token lifetime (default: 12h)
	VerificationTTL time.Duration // Email verification link lifetime (default: 24h)
	EmailIntentTTL  time.Duration // How long an unverified email-change intent is kept (default: 168h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:  getEnvOrDefault("CONSOLE_ISSUER", "waypoint-console"),
		BaseURL: getEnvOrDefault("CONSOLE_BASE_URL", "http://localhost:8080"),

		DatabaseFile: getEnvOrDefault("CONSOLE_DATABASE_FILE", "console.db"),
		PepperFile:   getEnvOrDefault("CONSOLE_PEPPER_FILE", "pepper"),

		InviteTTL:       getEnvDurationOrDefault("CONSOLE_INVITE_TTL", 24*time.Hour),
		SessionTTL:      getEnvDurationOrDefault("CONSOLE_SESSION_TTL", 12*time.Hour),
		VerificationTTL: getEnvDurationOrDefault("CONSOLE_VERIFICATION_TTL", 24*time.Hour),
		EmailIntentTTL:  getEnvDurationOrDefault("CONSOLE_EMAIL_INTENT_TTL", 168*time.Hour),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
