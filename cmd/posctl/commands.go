package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"restaurant-pos/internal/database"
	"restaurant-pos/internal/menuimport"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/objectstore"
	"restaurant-pos/internal/report"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/seed"
	"restaurant-pos/internal/service"
	"restaurant-pos/internal/session"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return database.Migrate(cmd.Context(), a.pool, a.logger)
		},
	}
}

func (c *cli) adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account with the admin role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sessions := session.NewManager(
				repository.NewUserRepository(a.pool, a.logger),
				repository.NewProfileRepository(a.pool, a.logger),
				a.cfg.Auth,
				a.logger,
			)
			user, err := sessions.SignUp(cmd.Context(), model.Credentials{Email: email, Password: password}, model.RoleAdmin)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	create.Flags().StringVar(&email, "email", "", "admin email")
	create.Flags().StringVar(&password, "password", "", "admin password (at least 6 characters)")
	create.MarkFlagRequired("email")
	create.MarkFlagRequired("password")

	admin.AddCommand(create)
	return admin
}

func (c *cli) menuCmd() *cobra.Command {
	menu := &cobra.Command{
		Use:   "menu",
		Short: "Manage the menu catalog",
	}

	imp := &cobra.Command{
		Use:   "import <source>...",
		Short: "Import menu items from CSV files (optionally gzipped)",
		Long: `Import menu items from CSV files. With S3 enabled each source is first
read from the bucket under the configured prefix, then from local disk.

A row whose name and portion match an existing item updates that item, so
importing the same file twice does not duplicate the menu.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			loader := menuimport.NewFileLoader(a.logger)
			if a.cfg.S3.Enabled {
				client, err := objectstore.NewClient(ctx, a.cfg.S3.Region)
				if err != nil {
					a.logger.Warn().Err(err).Msg("failed to initialise S3 client, using local files only")
				} else {
					s3Loader := menuimport.NewS3Loader(client, a.cfg.S3.Bucket, a.logger)
					loader = menuimport.NewFallbackLoader(s3Loader, loader, a.cfg.S3.Prefix, true, a.logger)
				}
			}

			menuService := service.NewMenuService(repository.NewMenuRepository(a.pool, a.logger), a.logger)
			res, err := menuimport.NewImporter(loader, menuService, a.logger).Import(ctx, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	menu.AddCommand(imp)
	return menu
}

func (c *cli) reportCmd() *cobra.Command {
	rep := &cobra.Command{
		Use:   "report",
		Short: "Sales reports",
	}

	var status, from, to string
	var toS3 bool
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the sales dashboard as a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			loc := a.cfg.Orders.Location()
			filter, err := metrics.ParseFilter(status, from, to, loc)
			if err != nil {
				return err
			}

			dashboards := service.NewDashboardService(repository.NewOrderRepository(a.pool, a.logger), loc, a.logger)
			var opts []report.Option
			if toS3 {
				if !a.cfg.S3.Enabled {
					return report.ErrS3Disabled
				}
				client, err := objectstore.NewClient(ctx, a.cfg.S3.Region)
				if err != nil {
					return fmt.Errorf("failed to initialise S3 client: %w", err)
				}
				opts = append(opts, report.WithS3(client, a.cfg.S3.Bucket, a.cfg.S3.Prefix))
			}
			exporter := report.NewExporter(dashboards, a.cfg.Report.Dir, a.logger, opts...)

			var location string
			if toS3 {
				location, err = exporter.ExportS3(ctx, filter)
			} else {
				location, err = exporter.ExportFile(ctx, filter)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
	export.Flags().StringVar(&status, "status", "", "only orders with this status (received, completed or all)")
	export.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD or RFC 3339)")
	export.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD or RFC 3339)")
	export.Flags().BoolVar(&toS3, "s3", false, "upload to S3 instead of writing a local file")

	rep.AddCommand(export)
	return rep
}

func (c *cli) seedCmd() *cobra.Command {
	sd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo data",
	}

	var (
		orders  int
		span    time.Duration
		seedVal int64
	)
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Create a demo menu (if empty) and random historical orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if orders < 0 {
				return fmt.Errorf("--orders must not be negative")
			}
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := runSeed(ctx, a, orders, span, seedVal)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	demo.Flags().IntVar(&orders, "orders", 50, "number of orders to generate")
	demo.Flags().DurationVar(&span, "span", 90*24*time.Hour, "spread orders over this much history")
	demo.Flags().Int64Var(&seedVal, "seed", 42, "random seed")

	sd.AddCommand(demo)
	return sd
}

func runSeed(ctx context.Context, a *app, orders int, span time.Duration, seedVal int64) (*seed.Result, error) {
	menuService := service.NewMenuService(repository.NewMenuRepository(a.pool, a.logger), a.logger)
	settingsService := service.NewSettingsService(
		repository.NewSettingsRepository(a.pool, a.logger),
		a.cfg.Orders.DefaultTableCount,
		a.logger,
	)
	seeder := seed.NewSeeder(
		menuService,
		repository.NewOrderRepository(a.pool, a.logger),
		settingsService,
		seed.NewGenerator(seedVal),
		a.logger,
	)
	return seeder.Run(ctx, orders, span)
}
