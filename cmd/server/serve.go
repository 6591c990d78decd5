package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/hr-operations-api/internal/config"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	"github.com/yukikurage/hr-operations-api/internal/database"
	"github.com/yukikurage/hr-operations-api/internal/events"
	"github.com/yukikurage/hr-operations-api/internal/handlers"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/middleware"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/services"
	"github.com/yukikurage/hr-operations-api/internal/storage"
	"gorm.io/gorm"
)

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.IsProduction()), nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	return database.Migrate(db, log)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer rc.Close()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		cfg.RedisAddr(),           // Redis address from config
		cfg.RedisPassword,         // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		return fmt.Errorf("failed to create Redis store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	var invalidator events.MessageViewInvalidator = events.NoopInvalidator{}
	if cfg.MessageEvents {
		invalidator = events.NewRedisInvalidator(rc)
	}

	// Summarizer stays a nil interface when OpenAI is not configured
	var summarizer services.Summarizer
	if cfg.OpenAIAPIKey != "" {
		summarizer = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}

	newRoutes(db, invalidator, summarizer, blobs, log).Register(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ServerAddr).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3Store(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	case "local", "":
		return storage.NewLocalStore(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// newRoutes wires repositories, services and handlers
func newRoutes(
	db *gorm.DB,
	invalidator events.MessageViewInvalidator,
	summarizer services.Summarizer,
	blobs storage.BlobStore,
	log logrus.FieldLogger,
) handlers.Routes {
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(employeeRepo)
	notificationService := services.NewNotificationService(repository.NewNotificationRepository(db))
	taskService := services.NewTaskService(taskRepo, employeeRepo, notificationService, log)
	messageService := services.NewTaskMessageService(
		repository.NewTaskMessageRepository(db), invalidator, notificationService, summarizer, log)

	return handlers.Routes{
		Auth:          handlers.NewAuthHandler(authService, log),
		Employees:     handlers.NewEmployeeHandler(services.NewEmployeeService(employeeRepo), log),
		Tasks:         handlers.NewTaskHandler(taskService, log),
		Messages:      handlers.NewTaskMessageHandler(messageService, log),
		Notifications: handlers.NewNotificationHandler(notificationService, log),
		Milestones: handlers.NewMilestoneHandler(
			services.NewMilestoneService(repository.NewMilestoneRepository(db), employeeRepo), log),
		Leave: handlers.NewLeaveHandler(
			services.NewLeaveService(repository.NewLeaveRepository(db), notificationService, log), log),
		Payroll: handlers.NewPayrollHandler(
			services.NewPayrollService(repository.NewPayrollRepository(db), employeeRepo), log),
		Payments: handlers.NewPaymentHandler(
			services.NewPaymentService(repository.NewPaymentRepository(db), employeeRepo, notificationService, log), log),
		Documents: handlers.NewDocumentHandler(
			services.NewDocumentService(repository.NewDocumentRepository(db), employeeRepo, blobs, notificationService, log), log),
		Identity:   authService,
		TaskLoader: taskService,
	}
}
