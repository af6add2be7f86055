package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/shopfront/pkg/database"
)

// Config holds the service configuration, read from the environment
type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort string
	GRPCPort string

	StoreBackend string // postgres | memory
	Database     database.Config

	JWTSecret               string
	TokenTTL                time.Duration
	ResetTokenTTL           time.Duration
	RevocationSweepInterval time.Duration

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration

	KafkaBrokers []string
	KafkaGroupID string

	SendGridAPIKey string
	MailFrom       string
	ClientURL      string

	FileStore string // local | gcs
	UploadDir string
	GCSBucket string

	CORSOrigins    []string
	TracingEnabled bool
	JaegerEndpoint string
}

// Load reads configuration from environment variables
func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnv("HTTP_PORT", "7777"),
		GRPCPort: getEnv("GRPC_PORT", "9090"),

		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "shopdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		JWTSecret:               getEnv("JWT_SECRET", ""),
		TokenTTL:                getEnvDuration("TOKEN_TTL", time.Hour),
		ResetTokenTTL:           getEnvDuration("RESET_TOKEN_TTL", 15*time.Minute),
		RevocationSweepInterval: getEnvDuration("REVOCATION_SWEEP_INTERVAL", time.Minute),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 20),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "shopfront"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@shopfront.local"),
		ClientURL:      getEnv("CLIENT_URL", "http://localhost:5173"),

		FileStore: getEnv("FILE_STORE", "local"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		GCSBucket: getEnv("GCS_BUCKET", ""),

		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// IsProduction reports whether cookies should be marked Secure
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks settings that have no safe default
func (c Config) Validate() error {
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.StoreBackend != "postgres" && c.StoreBackend != "memory" {
		return errors.New("STORE_BACKEND must be postgres or memory")
	}
	if c.FileStore == "gcs" && c.GCSBucket == "" {
		return errors.New("GCS_BUCKET is required when FILE_STORE=gcs")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvList(key string) []string {
	return splitList(os.Getenv(key))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
