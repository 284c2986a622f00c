// @title						ReVistete API
// @version					1.0
// @description				Marketplace de troca de roupas: publicações, mensagens e notificações.
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httphandlers "github.com/rafabene/revistete-backend/internal/handlers/http"
	"github.com/rafabene/revistete-backend/internal/infrastructure/cache"
	"github.com/rafabene/revistete-backend/internal/infrastructure/config"
	"github.com/rafabene/revistete-backend/internal/infrastructure/geocoding"
	"github.com/rafabene/revistete-backend/internal/infrastructure/i18n"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/messaging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/revistete-backend/internal/infrastructure/security"
	"github.com/rafabene/revistete-backend/internal/infrastructure/storage"
	"github.com/rafabene/revistete-backend/internal/infrastructure/telemetry"
	"github.com/rafabene/revistete-backend/internal/services"
)

const bcryptCost = 10

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting revistete backend",
		"env", cfg.Env,
		"version", "dev",
	)

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		log.Fatal(err)
	}

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			log.Fatal(err)
		}
		logger.Info("database schema up to date")
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Warn("locales directory unavailable, using embedded translations", "error", err)
		i18nService, err = i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage)
		if err != nil {
			logger.Error("failed to initialize i18n", "error", err)
			log.Fatal(err)
		}
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Infraestrutura externa (Redis, RabbitMQ, Nominatim, disco)
	resultCache := cache.New(cfg.Redis.URL, "revistete:", logger)
	events := messaging.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
	geocoder := geocoding.NewCachedGeocoder(
		geocoding.NewNominatimClient(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent, cfg.I18n.DefaultLanguage, cfg.Geocoding.Timeout),
		resultCache,
		cfg.Geocoding.CacheTTL,
		logger,
	)
	uploads, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.MaxFileSize)
	if err != nil {
		logger.Error("failed to initialize upload storage", "error", err)
		log.Fatal(err)
	}

	// Inicializar repositories
	timeout := cfg.Database.QueryTimeout
	userRepo := postgres.NewUserRepository(db, timeout)
	postRepo := postgres.NewPostRepository(db, timeout)
	conversationRepo := postgres.NewConversationRepository(db, timeout)
	messageRepo := postgres.NewMessageRepository(db, timeout)
	notificationRepo := postgres.NewNotificationRepository(db, timeout)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo, events, logger)
	svc := httphandlers.Services{
		Auth: services.NewAuthService(
			userRepo,
			security.NewBcryptHasher(bcryptCost),
			security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry),
			logger,
		),
		Users:         services.NewUserService(userRepo, postRepo, geocoder, logger),
		Posts:         services.NewPostService(postRepo, userRepo, uploads, logger),
		Notifications: notificationService,
		Messages: services.NewMessageService(
			conversationRepo, messageRepo, userRepo, notificationService,
			i18nService, events, uow, logger,
		),
		Geocoding: services.NewGeocodingService(geocoder),
	}

	router, err := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadDir:      uploads.Dir(),
		MaxFiles:       cfg.Storage.MaxFiles,
		ServiceName:    cfg.Telemetry.ServiceName,
	}, svc, i18nService, logger)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		log.Fatal(err)
	}

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"events", messaging.PublisherMode(events),
		)
		if reason := messaging.PublisherNoopReason(events); reason != "" {
			logger.Warn("domain events disabled", "reason", reason)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := events.Close(); err != nil {
		logger.Warn("failed to close event publisher", "error", err)
	}
	if closer, ok := resultCache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("failed to flush traces", "error", err)
	}

	logger.Info("server exited")
}
