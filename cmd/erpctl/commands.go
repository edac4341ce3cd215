package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"bizerp/internal/app"
	"bizerp/internal/config"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/core/id"
	"bizerp/internal/domain/auth"
	"bizerp/internal/infrastructure/storage/postgres"
)

// cli carries the process hooks so commands can run against fakes.
type cli struct {
	load    func() (*config.Config, error)
	open    func(ctx context.Context, cfg *config.Config) (*app.Runtime, error)
	migrate func(ctx context.Context, dsn string, direction postgres.MigrationDirection) error
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Operate a bizerp installation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		c.migrateCmd(),
		c.numbersCmd(),
		c.sweepCmd(),
		c.stockCmd(),
		c.userCmd(),
	)
	return root
}

// withRuntime loads configuration, opens the runtime and runs fn.
func (c *cli) withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *app.Runtime) error) error {
	cfg, err := c.load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	ctx := cmd.Context()
	rt, err := c.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.MigrateUp), string(postgres.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := postgres.MigrateUp
			if len(args) == 1 {
				direction = postgres.MigrationDirection(args[0])
			}
			cfg, err := c.load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := c.migrate(cmd.Context(), cfg.DatabaseURL, direction); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", direction)
			return nil
		},
	}
}

func (c *cli) numbersCmd() *cobra.Command {
	numbers := &cobra.Command{
		Use:   "numbers",
		Short: "Document numbering counters",
	}
	numbers.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Raise every counter to the highest stored document number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				return syncNumbers(ctx, cmd, rt.App.NumberSyncers())
			})
		},
	})
	return numbers
}

func syncNumbers(ctx context.Context, cmd *cobra.Command, syncers []app.NumberSyncer) error {
	for _, s := range syncers {
		current, err := s.Sync(ctx)
		if err != nil {
			return fmt.Errorf("sync %s: %w", s.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", s.Name, current)
	}
	return nil
}

func (c *cli) sweepCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "List document headers saved without their lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				report, err := rt.App.Sweeper.Run(ctx, remove)
				if err != nil {
					return err
				}
				printSweep(cmd, report, remove)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the orphan headers instead of only listing them")
	return cmd
}

func printSweep(cmd *cobra.Command, report map[string][]id.ID, removed bool) {
	out := cmd.OutOrStdout()
	if len(report) == 0 {
		fmt.Fprintln(out, "no orphan headers")
		return
	}
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	verb := "orphan"
	if removed {
		verb = "removed"
	}
	for _, name := range names {
		for _, docID := range report[name] {
			fmt.Fprintf(out, "%s\t%s\t%s\n", verb, name, docID.String())
		}
	}
}

func (c *cli) stockCmd() *cobra.Command {
	stock := &cobra.Command{
		Use:   "stock",
		Short: "Stock consistency tools",
	}
	stock.AddCommand(&cobra.Command{
		Use:   "audit",
		Short: "List items whose stored stock differs from the bin ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				drift, err := rt.App.Bins.StockDrift(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(drift) == 0 {
					fmt.Fprintln(out, "no stock drift")
					return nil
				}
				for _, b := range drift {
					fmt.Fprintf(out, "%s\t%s\tstored=%g\tledger=%g\tdiff=%g\n",
						b.ItemID.String(), b.ItemName, b.CurrentStock, b.LedgerNet, b.Difference())
				}
				return fmt.Errorf("%d item(s) drifted", len(drift))
			})
		},
	})
	return stock
}

func (c *cli) userCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var req auth.RegisterRequest
	var pin string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user, typically the first administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pin != "" {
				req.Pin = &pin
			}
			return c.withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
				u, err := rt.App.Auth.Register(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", u.Role, u.Email, u.ID.String())
				return nil
			})
		},
	}
	create.Flags().StringVar(&req.Name, "name", "Administrator", "display name")
	create.Flags().StringVar(&req.Email, "email", "", "login email")
	create.Flags().StringVar(&req.Password, "password", "", "login password")
	create.Flags().StringVar(&req.Role, "role", appctx.RoleAdmin, "role: admin, manager, staff or technician")
	create.Flags().StringVar(&pin, "pin", "", "optional 4 digit technician PIN")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	user.AddCommand(create)
	return user
}
