package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"relief-bknd/internal/config"
	"relief-bknd/internal/logger"
	"relief-bknd/internal/routes"
	"relief-bknd/internal/store"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	// Backend selection happens exactly once, here. The choice holds
	// for the process lifetime.
	st, err := store.Open(context.Background(), cfg, logr.Logger)
	if err != nil {
		logr.Fatal("failed to open request store", zap.Error(err))
	}

	r := routes.NewRouter(st, cfg, logr)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
