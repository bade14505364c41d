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

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/config"
	"github.com/prepnexus/learning-service/internal/handlers"
	"github.com/prepnexus/learning-service/internal/repositories/postgres"
	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/sessions"
	"github.com/prepnexus/learning-service/internal/utils"
	"github.com/prepnexus/learning-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	store := sessions.NewRedisStore(redisClient, cfg.SessionTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := ai.NewProvider(ctx, ai.Config{
		Provider:    cfg.AIProvider,
		OpenAIKey:   cfg.OpenAIAPIKey,
		OpenAIModel: cfg.OpenAIModel,
		GeminiKey:   cfg.GeminiAPIKey,
		GeminiModel: cfg.GeminiModel,
		Timeout:     cfg.AITimeout,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize AI provider", "error", err)
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(repo, provider, store, publisher, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, utils.NewValidator(), logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Learning service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
