// Command erpctl is the operator CLI: schema migrations, numbering counter
// sync, orphan header sweeps, stock audits and user bootstrap.
package main

import (
	"context"
	"fmt"
	"os"

	"bizerp/internal/app"
	"bizerp/internal/config"
	"bizerp/internal/infrastructure/storage/postgres"
	"bizerp/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	ctx := logger.WithLogger(context.Background(), log)

	root := newRootCmd(&cli{
		load: config.Load,
		open: func(ctx context.Context, cfg *config.Config) (*app.Runtime, error) {
			// Migrations run only through the migrate command.
			cfg.AutoMigrate = false
			return app.Open(ctx, cfg)
		},
		migrate: postgres.Migrate,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
