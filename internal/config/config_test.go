package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/clubsite")
	t.Setenv("APP_EMAIL", "ops@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "adminpassword", cfg.AdminPassword)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 465, cfg.Mail.SMTPPort)
	assert.Equal(t, "ops@example.com", cfg.Mail.Recipient)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.EqualValues(t, 10<<20, cfg.Uploads.MaxBytes)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost/db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.example.com", cfg.Uploads.PublicBaseURL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 465, cfg.Mail.SMTPPort)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiresIn)
}

func TestLoad_MissingCriticalSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DB_DRIVER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestLoad_RejectsUnusableSMTPPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("RESEND_API_KEY", "")

	for _, port := range []string{"25", "70000"} {
		t.Setenv("SMTP_PORT", port)
		_, err := Load()
		require.Error(t, err, port)
		assert.Contains(t, err.Error(), "SMTP_PORT", port)
	}

	t.Setenv("SMTP_PORT", "587")
	_, err := Load()
	require.NoError(t, err)

	// the port is irrelevant when mail goes through Resend
	t.Setenv("SMTP_PORT", "25")
	t.Setenv("RESEND_API_KEY", "re_test")
	_, err = Load()
	require.NoError(t, err)
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{Port: "5000", DBDriver: DriverMongo, JWTSecret: "top-secret", MongoURI: "mongodb://u:pw@h/db"}
	s := cfg.String()
	assert.NotContains(t, s, "top-secret")
	assert.NotContains(t, s, "pw@")
}
