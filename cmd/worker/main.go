// Package main is the entry point for the bizerp background worker.
// It schedules the orphan header sweep and the stock drift audit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"bizerp/internal/app"
	"bizerp/internal/config"
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
		Service:     "bizerp-worker",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting bizerp worker")

	// The server owns migrations.
	cfg.AutoMigrate = false
	rt, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer rt.Close()

	jobs := NewJobs(rt.App.Sweeper, rt.App.Bins, rt.Pool.LogStats, log)

	scheduler := cron.New()
	err = jobs.Register(ctx, scheduler, Schedule{
		Sweep:      cfg.SweepSchedule,
		StockAudit: cfg.StockAuditSchedule,
		PoolStats:  "@every 5m",
	})
	if err != nil {
		log.Fatalw("failed to schedule jobs", "error", err)
	}
	scheduler.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	<-scheduler.Stop().Done()
	log.Info("worker stopped")
}
