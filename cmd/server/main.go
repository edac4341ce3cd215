// Package main is the entry point for the bizerp API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bizerp/internal/app"
	"bizerp/internal/config"
	v1 "bizerp/internal/infrastructure/http/v1"
	"bizerp/internal/infrastructure/http/v1/middleware"
	"bizerp/internal/infrastructure/upload"
	"bizerp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: !cfg.IsProduction(),
		Service:     cfg.ServiceName,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting bizerp server", "env", cfg.AppEnv, "read_only", cfg.ReadOnlyMode)

	rt, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer rt.Close()

	if err := rt.Cache.Start(ctx); err != nil {
		log.Warnw("report cache invalidation listener not started", "error", err)
	}

	receipts, err := upload.NewStore(upload.Config{
		Dir:      cfg.UploadDir,
		MaxWidth: cfg.UploadMaxWidth,
		Quality:  cfg.UploadQuality,
	})
	if err != nil {
		log.Fatalw("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
	}

	loginLimiter, err := middleware.NewLimiter(cfg.LoginRate)
	if err != nil {
		log.Fatalw("invalid LOGIN_RATE", "value", cfg.LoginRate, "error", err)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Config:       cfg,
		App:          rt.App,
		DB:           rt.Pool,
		Receipts:     receipts,
		LoginLimiter: loginLimiter,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.WriteTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
