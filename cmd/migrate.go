package cmd

import (
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		if err := db.Migrate(); err != nil {
			return err
		}
		logger.L().Info("schema up to date")
		return nil
	},
}
