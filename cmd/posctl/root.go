package main

import (
	"context"
	"fmt"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"config":     "POS_CONFIG_FILE",
	"db-host":    "DB_HOST",
	"db-port":    "DB_PORT",
	"db-name":    "DB_NAME",
	"db-user":    "DB_USER",
	"log-level":  "LOG_LEVEL",
	"log-format": "LOG_FORMAT",
}

// app is the shared state of a single command run.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	return (&cli{v: viper.New()}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Maintenance tool for the restaurant POS",
		Long:          `posctl migrates the POS database, bootstraps admin accounts, imports menus, exports sales reports and seeds demo data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("db-host", "", "database host")
	flags.Int("db-port", 0, "database port")
	flags.String("db-name", "", "database name")
	flags.String("db-user", "", "database user")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json or console)")

	for name, key := range flagKeys {
		c.bindFlag(root, name, key)
	}

	root.AddCommand(
		c.migrateCmd(),
		c.adminCmd(),
		c.menuCmd(),
		c.reportCmd(),
		c.seedCmd(),
	)
	return root
}

// bindFlag lets an explicitly set flag override the environment. Unset flags
// are not bound so their zero defaults never mask config values.
func (c *cli) bindFlag(root *cobra.Command, name, key string) {
	root.PersistentPreRunE = chainPreRun(root.PersistentPreRunE, func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			return nil
		}
		return c.v.BindPFlag(key, f)
	})
}

func chainPreRun(prev, next func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if prev != nil {
			if err := prev(cmd, args); err != nil {
				return err
			}
		}
		return next(cmd, args)
	}
}

// loadConfig reads configuration with command-line overrides applied.
func (c *cli) loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFrom(c.v)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, config.NewLogger(cfg.Logger, "posctl"), nil
}

// open loads configuration and connects to the database.
func (c *cli) open(ctx context.Context) (*app, error) {
	cfg, logger, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &app{cfg: cfg, logger: logger, pool: pool}, nil
}
