package cmd

import (
	"fmt"
	"os"

	"github.com/meinhoongagan/marketplace/config"
	"github.com/meinhoongagan/marketplace/controllers"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Local services marketplace backend",
	Long: `Marketplace connects clients with local service providers.

Available commands:
  serve        - Run the HTTP API
  migrate      - Create or update the database schema
  create-admin - Create or promote an administrator account`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, the logger and the database pool shared by
// every command.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("initialising logger: %w", err)
	}
	controllers.Configure(cfg.Auth)
	if err := db.Init(cfg.Database); err != nil {
		return nil, err
	}
	return cfg, nil
}
