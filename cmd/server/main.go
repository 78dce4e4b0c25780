package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"activities-backend/internal/auth"
	"activities-backend/internal/bootstrap"
	"activities-backend/internal/config"
	"activities-backend/internal/database"
	"activities-backend/internal/events"
	"activities-backend/internal/handlers"
	"activities-backend/internal/logging"
	"activities-backend/internal/mailer"
	"activities-backend/internal/routes"
	"activities-backend/internal/server"
	"activities-backend/internal/uploads"
)

const (
	eventQueueSize       = 1024
	eventDeliveryTimeout = 5 * time.Second
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

func main() {
	// Load .env variables
	LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "starting", "config", cfg.String())

	// Connect DB
	st, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	logger.Info(ctx, "database connected", "driver", cfg.DBDriver)

	if _, err := bootstrap.EnsureAdmin(ctx, st.Users, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		logger.Error(ctx, "seeding default admin failed", "error", err)
	}

	mail := newMailer(cfg)
	verifyCtx, cancelVerify := context.WithTimeout(ctx, 20*time.Second)
	if err := mail.Verify(verifyCtx); err != nil {
		logger.Warn(ctx, "mail transport not ready", "error", err)
	} else {
		logger.Info(ctx, "mail transport ready")
	}
	cancelVerify()

	publisher := newPublisher(cfg, logger)

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise uploads storage: %v", err)
	}

	h := &handlers.Handler{
		Activities:     st.Activities,
		Users:          st.Users,
		Tokens:         auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn),
		Mailer:         mail,
		Contact:        handlers.ContactSettings{From: cfg.Mail.AppEmail, To: cfg.Mail.Recipient},
		Events:         publisher,
		Uploads:        storage,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Logger:         logger,
	}

	uploadsDir := ""
	if cfg.Uploads.S3Bucket == "" {
		uploadsDir = cfg.Uploads.Dir
	}
	engine := routes.New(h, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadsDir:  uploadsDir,
		Logger:      logger,
	})

	srvCfg := server.DefaultConfig(cfg.Addr())
	srv := server.New(srvCfg, engine)

	logger.Info(ctx, "server listening", "addr", srv.Addr)
	runErr := server.Run(ctx, srv, srvCfg.ShutdownTimeout)

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelClose()
	if err := publisher.Close(); err != nil {
		logger.Warn(closeCtx, "closing event publisher", "error", err)
	}
	if err := st.Close(closeCtx); err != nil {
		logger.Warn(closeCtx, "closing database", "error", err)
	}

	if runErr != nil {
		logger.Error(closeCtx, "server error", "error", runErr)
		os.Exit(1)
	}
	logger.Info(closeCtx, "server stopped")
}

func newMailer(cfg *config.Config) mailer.Mailer {
	if cfg.Mail.ResendAPIKey != "" {
		return mailer.NewResendSender(cfg.Mail.ResendAPIKey)
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.AppEmail,
		Password: cfg.Mail.AppPassword,
	})
}

func newPublisher(cfg *config.Config, logger logging.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NoopPublisher{}
	}
	logger.Info(context.Background(), "publishing activity events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	producer := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	return events.NewAsyncPublisher(producer, eventQueueSize, eventDeliveryTimeout, logger)
}

func newStorage(ctx context.Context, cfg *config.Config) (uploads.Storage, error) {
	if cfg.Uploads.S3Bucket != "" {
		return uploads.NewS3Storage(ctx, uploads.S3Config{
			Bucket:        cfg.Uploads.S3Bucket,
			Region:        cfg.Uploads.S3Region,
			Endpoint:      cfg.Uploads.S3Endpoint,
			AccessKey:     cfg.Uploads.S3AccessKey,
			SecretKey:     cfg.Uploads.S3SecretKey,
			PublicBaseURL: cfg.Uploads.S3PublicBaseURL,
		})
	}
	return uploads.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL+"/uploads")
}
