package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devtogether/platform-api/internal/config"
	"github.com/devtogether/platform-api/internal/email"
	"github.com/devtogether/platform-api/internal/handler"
	accountHandler "github.com/devtogether/platform-api/internal/handler/account"
	deletionHandler "github.com/devtogether/platform-api/internal/handler/deletion"
	moderationHandler "github.com/devtogether/platform-api/internal/handler/moderation"
	projectHandler "github.com/devtogether/platform-api/internal/handler/project"
	prometheusHandler "github.com/devtogether/platform-api/internal/handler/prometheus"
	"github.com/devtogether/platform-api/internal/middleware"
	"github.com/devtogether/platform-api/internal/repository/postgres"
	"github.com/devtogether/platform-api/internal/router"
	"github.com/devtogether/platform-api/internal/service/authz"
	deletionService "github.com/devtogether/platform-api/internal/service/deletion"
	moderationService "github.com/devtogether/platform-api/internal/service/moderation"
	"github.com/devtogether/platform-api/pkg/auth"
	"github.com/devtogether/platform-api/pkg/logger"
	"github.com/devtogether/platform-api/pkg/messaging"
	redisbroker "github.com/devtogether/platform-api/pkg/messaging/redis"
	"github.com/devtogether/platform-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Server.LogLevel)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	superAdminID := uuid.Nil
	if cfg.Moderation.SuperAdminID != "" {
		superAdminID, err = uuid.Parse(cfg.Moderation.SuperAdminID)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid super admin id")
		}
	}

	// Repositories
	base := postgres.NewBaseRepository(db)
	accountRepo := postgres.NewAccountRepository(base)
	projectRepo := postgres.NewProjectRepository(base)
	applicationRepo := postgres.NewApplicationRepository(base)
	messageRepo := postgres.NewMessageRepository(base)
	impactRepo := postgres.NewImpactRepository(base)
	auditRepo := postgres.NewAuditRepository(base)

	// Messaging is optional: without Redis the platform still moderates and
	// deletes, it just stops publishing events.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	var emailSvc email.Service = email.NoopService{}
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	}

	m := metrics.NewMetrics("platform")

	// Services
	gate := authz.NewService(accountRepo, superAdminID)
	moderationSvc := moderationService.NewService(accountRepo, projectRepo, gate, emailSvc, broker, m)
	analyzer := deletionService.NewAnalyzer(impactRepo, m)
	executor := deletionService.NewExecutor(analyzer, gate, accountRepo, projectRepo, applicationRepo, auditRepo, broker, m)

	// Handlers
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(tokens, gate)
	accountH := accountHandler.NewHandler(accountRepo, applicationRepo)
	projectH := projectHandler.NewHandler(projectRepo, messageRepo, applicationRepo)
	moderationH := moderationHandler.NewHandler(moderationSvc)
	deletionH := deletionHandler.NewHandler(analyzer, executor, auditRepo)
	healthH := handler.NewHealthHandler(db)
	metricsH := prometheusHandler.New()

	r := router.NewRouter(
		authMiddleware,
		accountH,
		projectH,
		moderationH,
		deletionH,
		healthH,
		metricsH,
		router.Config{
			RateLimit: cfg.Server.RateLimit,
			RateBurst: cfg.Server.RateBurst,
			CORS:      middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
