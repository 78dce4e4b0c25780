// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported DB_DRIVER values.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultMongoDB is used when neither MONGO_DB nor the URI path names a database.
const DefaultMongoDB = "activities"

// Config holds all application configuration.
type Config struct {
	Port string

	DBDriver    string
	MongoURI    string
	MongoDB     string
	PostgresDSN string

	JWTSecret    string
	JWTExpiresIn time.Duration

	AdminUsername string
	AdminPassword string

	Mail    MailConfig
	Uploads UploadsConfig
	Kafka   KafkaConfig

	CORSOrigins []string
	LogLevel    string
}

// MailConfig contains the contact-form transport settings.
type MailConfig struct {
	AppEmail     string // SMTP username and From address
	AppPassword  string
	SMTPHost     string
	SMTPPort     int
	Recipient    string // operator inbox receiving contact messages
	ResendAPIKey string // when set, the Resend API is used instead of SMTP
}

// UploadsConfig contains picture upload settings.
type UploadsConfig struct {
	Dir           string
	MaxBytes      int64
	PublicBaseURL string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// KafkaConfig contains the activity event publisher settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads the configuration and validates critical settings.
func Load() (*Config, error) {
	appEmail := getEnv("APP_EMAIL", "")

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", ""),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiresIn:  getDurationEnv("JWT_EXPIRES_IN", 30*24*time.Hour),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "adminpassword"),
		Mail: MailConfig{
			AppEmail:     appEmail,
			AppPassword:  getEnv("APP_PASSWORD", ""),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getIntEnv("SMTP_PORT", 465),
			Recipient:    getEnv("CONTACT_RECIPIENT", appEmail),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
		Uploads: UploadsConfig{
			Dir:             getEnv("UPLOADS_DIR", "uploads"),
			MaxBytes:        int64(getIntEnv("UPLOAD_MAX_BYTES", 10<<20)),
			PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
			S3Bucket:        getEnv("S3_BUCKET", ""),
			S3Region:        getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:      getEnv("S3_ENDPOINT", ""),
			S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
			S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		},
		Kafka: KafkaConfig{
			Brokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "activities"),
		},
		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is missing"))
	}
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when DB_DRIVER=mongo"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when DB_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Mail.ResendAPIKey == "" {
		switch p := c.Mail.SMTPPort; {
		case p == 25:
			// the SMTP client needs TLS and would silently dial 587 instead
			errs = append(errs, errors.New("SMTP_PORT 25 is not supported, use 465 or 587"))
		case p < 1 || p > 65535:
			errs = append(errs, fmt.Errorf("SMTP_PORT %d is out of range", p))
		}
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// String returns a representation of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s, JWT: ***, SMTP: %s:%d, Uploads: %s, S3: %q, Kafka: %v}",
		c.Port, c.DBDriver, c.Mail.SMTPHost, c.Mail.SMTPPort, c.Uploads.Dir, c.Uploads.S3Bucket, c.Kafka.Brokers)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
