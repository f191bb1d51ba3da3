package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. The service is stateless:
// everything it needs comes from the environment.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Upload limits
	MaxUploadBytes int64

	// Result cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Observability
	SentryDSN      string // Sentry DSN for error tracking
	MetricsEnabled bool   // CloudWatch custom metrics (production only)
}

const (
	defaultMaxUploadBytes  = 50 << 20 // 50MB
	defaultCacheTTLMinutes = 30
	defaultCacheMaxEntries = 100
)

func Load() *Config {
	return &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		CacheTTL:        time.Duration(getEnvInt64("CACHE_TTL_MINUTES", defaultCacheTTLMinutes)) * time.Minute,
		CacheMaxEntries: int(getEnvInt64("CACHE_MAX_ENTRIES", defaultCacheMaxEntries)),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		MetricsEnabled:  getEnv("METRICS_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
