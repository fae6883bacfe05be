package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/app"
	"esg-dashboard/ghg-backend/internal/config"
	"esg-dashboard/ghg-backend/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to load config", zap.Error(err))
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialise application", zap.Error(err))
	}
	defer application.Close()

	logger.Info("Database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("require_auth", cfg.Security.RequireAuth))

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      application.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
