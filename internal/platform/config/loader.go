// Package config provides environment-aware configuration loading helpers,
// generalised from the teacher's env/secret loader with the TEE-specific
// secret store removed (this spec carries no TEE component).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment if present. It
// is a no-op (not an error) when the file does not exist, matching the
// teacher's tolerant startup posture.
func LoadDotEnv(path string) {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// GetEnv retrieves an environment variable with an optional default.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool retrieves a boolean environment variable.
// Accepts "true", "1", "yes", "y" (case-insensitive) as true.
func GetEnvBool(key string, defaultValue bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}
	lower := strings.ToLower(val)
	return lower == "true" || lower == "1" || lower == "yes" || lower == "y"
}

// GetEnvInt retrieves an integer environment variable. Returns defaultValue
// when unset or unparsable.
func GetEnvInt(key string, defaultValue int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetEnvDuration parses a duration-valued environment variable (e.g. "5m30s").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// SplitAndTrimCSV splits a CSV string and trims each part, dropping empties.
func SplitAndTrimCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RequireEnv retrieves a required configuration value, returning an error
// (never panicking) when absent — config failures are values, not exceptions.
func RequireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("%s is required but not configured", key)
	}
	return value, nil
}

// Config aggregates the settings the service needs at startup.
type Config struct {
	ServiceName string
	Addr        string
	LogLevel    string
	LogFormat   string

	DatabaseDSN string
	RedisURL    string

	JWTSecret       string
	JWTExpiry       time.Duration
	AadhaarLockout  time.Duration
	AadhaarMaxTries int
	AAWaitTimeout   time.Duration
	BBPSGSPTimeout  time.Duration
	OAuthTimeout    time.Duration

	UIDAIPublicKeyPath string
	AAPrivateKeyPath   string
	AAClientAPIKey     string
	FIUEntityID        string

	DegradedModeAllowed bool
	TestOTP             string
}

// FromEnv builds a Config from the process environment with production-sane
// defaults, mirroring the teacher's EnvOrSecret-backed loader shape.
func FromEnv() *Config {
	return &Config{
		ServiceName:         GetEnv("SERVICE_NAME", "credit-intelligence-engine"),
		Addr:                GetEnv("ADDR", ":8080"),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		LogFormat:           GetEnv("LOG_FORMAT", "json"),
		DatabaseDSN:         GetEnv("DATABASE_URL", ""),
		RedisURL:            GetEnv("REDIS_URL", ""),
		JWTSecret:           GetEnv("JWT_SECRET", "dev-only-secret-change-me"),
		JWTExpiry:           GetEnvDuration("JWT_EXPIRY", 30*time.Minute),
		AadhaarLockout:      GetEnvDuration("AADHAAR_LOCKOUT", 5*time.Minute),
		AadhaarMaxTries:     GetEnvInt("AADHAAR_MAX_ATTEMPTS", 3),
		AAWaitTimeout:       GetEnvDuration("AA_TIMEOUT", 30*time.Second),
		BBPSGSPTimeout:      GetEnvDuration("BBPS_GSP_TIMEOUT", 15*time.Second),
		OAuthTimeout:        GetEnvDuration("OAUTH_TIMEOUT", 10*time.Second),
		UIDAIPublicKeyPath:  GetEnv("UIDAI_PUBLIC_KEY_PATH", ""),
		AAPrivateKeyPath:    GetEnv("AA_PRIVATE_KEY_PATH", ""),
		AAClientAPIKey:      GetEnv("AA_CLIENT_API_KEY", ""),
		FIUEntityID:         GetEnv("FIU_ENTITY_ID", ""),
		DegradedModeAllowed: GetEnvBool("DEGRADED_MODE_ALLOWED", true),
		TestOTP:             GetEnv("DEGRADED_TEST_OTP", "123456"),
	}
}
