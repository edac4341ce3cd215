package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"bizerp/internal/core/id"
	"bizerp/internal/domain/bins"
	"bizerp/pkg/logger"
)

// OrphanSweeper reports document headers left without lines.
type OrphanSweeper interface {
	Run(ctx context.Context, remove bool) (map[string][]id.ID, error)
}

// StockAuditor lists items whose stored stock disagrees with the bin ledger.
type StockAuditor interface {
	StockDrift(ctx context.Context) ([]bins.ItemBalance, error)
}

// Schedule holds cron specs for the worker jobs. An empty spec disables
// the job.
type Schedule struct {
	Sweep      string
	StockAudit string
	PoolStats  string
}

// Jobs runs the periodic reconciliation work.
type Jobs struct {
	sweeper OrphanSweeper
	stock   StockAuditor
	stats   func(ctx context.Context)
	log     *logger.Logger
	timeout time.Duration
}

// NewJobs creates the job set. stats may be nil.
func NewJobs(sweeper OrphanSweeper, stock StockAuditor, stats func(ctx context.Context), log *logger.Logger) *Jobs {
	return &Jobs{
		sweeper: sweeper,
		stock:   stock,
		stats:   stats,
		log:     log.WithComponent("worker"),
		timeout: 5 * time.Minute,
	}
}

// Sweep reports orphan headers. The worker never deletes them; removal is
// an explicit operator action (erpctl sweep --delete).
func (j *Jobs) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.sweeper.Run(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("sweep orphans: %w", err)
	}
	total := 0
	for _, ids := range report {
		total += len(ids)
	}
	if total > 0 {
		j.log.Warnw("orphan document headers pending review", "count", total, "documents", len(report))
	}
	return total, nil
}

// AuditStock logs every item whose stored stock drifted from the ledger.
func (j *Jobs) AuditStock(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	drift, err := j.stock.StockDrift(ctx)
	if err != nil {
		return 0, fmt.Errorf("audit stock: %w", err)
	}
	for _, b := range drift {
		j.log.Warnw("stock drift detected",
			"item_id", b.ItemID.String(),
			"item_name", b.ItemName,
			"current_stock", b.CurrentStock,
			"ledger_net", b.LedgerNet,
			"difference", b.Difference(),
		)
	}
	return len(drift), nil
}

// Register adds the jobs to c.
func (j *Jobs) Register(ctx context.Context, c *cron.Cron, s Schedule) error {
	type entry struct {
		name string
		spec string
		run  func(ctx context.Context) (int, error)
	}
	entries := []entry{
		{"sweep", s.Sweep, j.Sweep},
		{"stock_audit", s.StockAudit, j.AuditStock},
	}
	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		if _, err := c.AddFunc(e.spec, j.wrap(ctx, e.name, e.run)); err != nil {
			return fmt.Errorf("schedule %s %q: %w", e.name, e.spec, err)
		}
		j.log.Infow("job scheduled", "job", e.name, "spec", e.spec)
	}
	if j.stats != nil && s.PoolStats != "" {
		if _, err := c.AddFunc(s.PoolStats, func() { j.stats(ctx) }); err != nil {
			return fmt.Errorf("schedule pool_stats %q: %w", s.PoolStats, err)
		}
	}
	return nil
}

func (j *Jobs) wrap(ctx context.Context, name string, run func(ctx context.Context) (int, error)) func() {
	return func() {
		start := time.Now()
		n, err := run(ctx)
		if err != nil {
			j.log.Errorw("job failed", "job", name, "error", err)
			return
		}
		j.log.Infow("job finished", "job", name, "findings", n, "duration", time.Since(start))
	}
}
