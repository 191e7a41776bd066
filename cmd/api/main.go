package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/auth"
	"github.com/justsurfingit/joblocal/internal/config"
	"github.com/justsurfingit/joblocal/internal/database"
	"github.com/justsurfingit/joblocal/internal/events"
	"github.com/justsurfingit/joblocal/internal/handlers"
	"github.com/justsurfingit/joblocal/internal/logger"
	"github.com/justsurfingit/joblocal/internal/notify"
	"github.com/justsurfingit/joblocal/internal/realtime"
	"github.com/justsurfingit/joblocal/internal/services"
	"github.com/justsurfingit/joblocal/internal/storage"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// 1. Load configuration (.env, config.yaml, environment)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// 2. Logging
	logger.Setup(cfg.AppEnv, cfg.LogLevel)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Database Connection
	db, err := database.Connect(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Debug:        cfg.IsDevelopment() && cfg.LogLevel == "debug",
	})
	if err != nil {
		log.Fatalf("Database: %v", err)
	}
	defer database.Close(db)

	// 4. Resume storage
	files, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Storage: %v", err)
	}

	// 5. Socket hub, with the optional cross-instance relay
	hub := realtime.NewHub()
	if cfg.RedisURL != "" {
		relay, err := realtime.NewRedisRelay(cfg.RedisURL, hub)
		if err != nil {
			log.WithError(err).Warn("redis relay unavailable, sockets stay local to this instance")
		} else {
			hub.SetRelay(relay)
			go relay.Run(ctx)
			defer relay.Close()
		}
	}

	// 6. Notifications
	notifications := services.NewNotificationService(openNotificationStore(cfg, db), hub)
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, notification export disabled")
		} else {
			notifications.WithExporter(pub)
			defer pub.Close()
		}
	}

	// 7. Initialize Core Services (Dependencies)
	authService := services.NewAuthService(db,
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		auth.NewOTPGenerator(cfg.OTPSecret),
		cfg.AdminCode,
	)
	authService.LogOTP = cfg.IsDevelopment()

	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Warn("job extraction disabled")
		llmService = &services.LLMService{}
	}
	jobService := services.NewJobService(db)
	applicationService := services.NewApplicationService(db, notifications, files)

	var google *auth.GoogleProvider
	if cfg.GoogleEnabled() {
		google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	// 8. Initialize Handlers & Routes
	h := &handlers.Handlers{
		Auth:          handlers.NewAuthHandler(authService, google, cfg.FrontendURL),
		Jobs:          handlers.NewJobHandler(llmService, jobService, applicationService),
		Applications:  handlers.NewApplicationHandler(applicationService),
		Notifications: handlers.NewNotificationHandler(notifications, jobService),
		Admin:         handlers.NewAdminHandler(services.NewAdminService(db)),
		Users:         handlers.NewUserHandler(services.NewUserService(db)),
		Files:         handlers.NewFileHandler(files),
	}
	r := handlers.NewRouter(h, authService, handlers.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		Hub:         hub,
	})

	// 9. Serve until interrupted
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("forced shutdown")
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewR2(ctx, storage.R2Config{
			AccountID: cfg.R2AccountID,
			Bucket:    cfg.R2Bucket,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
		})
	}
	return storage.NewLocal(cfg.UploadDir)
}

func openNotificationStore(cfg *config.Config, db *gorm.DB) notify.Store {
	if cfg.NotificationStore == "database" {
		return notify.NewGormStore(db)
	}
	return notify.NewMemoryStore()
}
