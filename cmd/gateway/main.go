package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/flaretrack/flaretrack/pkg/gateway"
	"github.com/flaretrack/flaretrack/pkg/logging"
	"github.com/flaretrack/flaretrack/pkg/storage"
)

func setupLogger() *logging.ColoredLogger {
	logger, err := logging.NewColoredLogger(true)
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	logger := setupLogger()

	// Load gateway config (flags/env/file)
	cfg := parseGatewayConfig(logger)

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.ComponentError(logging.ComponentDatabase, "failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	g := gateway.New(logger, cfg, db)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: g.Routes(),
	}

	// Start server
	go func() {
		logger.ComponentInfo(logging.ComponentGateway, "Gateway HTTP server starting",
			zap.String("addr", cfg.ListenAddr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ComponentError(logging.ComponentGateway, "HTTP server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.ComponentInfo(logging.ComponentGateway, "Shutting down gateway HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ComponentError(logging.ComponentGateway, "HTTP server shutdown error", zap.Error(err))
	}
	logger.ComponentInfo(logging.ComponentGateway, "Gateway shutdown complete")
}
