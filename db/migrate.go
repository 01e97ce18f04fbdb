package db

import (
	"fmt"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
)

// Migrate creates or updates every table. It expects Init to have run.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}
	if err := DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.L().Info("migrations applied")
	return nil
}
