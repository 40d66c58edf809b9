package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api"
	"github.com/roboticsleb/storefront/internal/config"
	"github.com/roboticsleb/storefront/internal/notifier"
	"github.com/roboticsleb/storefront/internal/repository/postgres"
	"github.com/roboticsleb/storefront/internal/service"
	"github.com/roboticsleb/storefront/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize collaborators
	files, err := storage.NewLocalFileStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file store", zap.Error(err))
	}
	external := notifier.New(cfg.SMTP, logger)

	// Initialize services
	notify := service.NewNotificationService(repos, external, logger)
	svcs := &api.Services{
		Auth:    service.NewAuthService(repos, cfg.JWT.Secret, logger),
		Orders:  service.NewOrderService(repos, files, notify, logger),
		Reviews: service.NewReviewService(repos, notify, logger),
		Coupons: service.NewCouponService(repos, logger),
		Notify:  notify,
	}

	// Initialize router
	router := api.NewRouter(cfg, repos, svcs, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
