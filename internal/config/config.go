package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers selectable through STORE_DRIVER.
const (
	StoreDynamo = "dynamo"
	StoreMongo  = "mongo"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string
	AppEnv    string
	LogLevel  string
	LogFormat string

	StoreDriver    string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to DynamoDB Local / LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	MongoURI       string
	MongoDatabase  string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	OTPTTL              time.Duration
	AllowedOrigins      []string // CORS allowed origins
	ShutdownGracePeriod time.Duration
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	OTPVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:   getEnv("APP_PORT", "3000"),
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDynamo)),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			OTPVerifications: getEnv("DYNAMO_TABLE_OTP_VERIFICATIONS", "otp_verifications"),
		},
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "bomberman_db"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", `"Bomberman Game" <noreply@example.com>`),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		OTPTTL:              getEnvDuration("OTP_TTL", 10*time.Minute),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "*")),
		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare integers are read as seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
