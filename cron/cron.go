package cron

import (
	"time"

	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/metrics"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCronJobs schedules the background jobs and returns the running
// scheduler; callers Stop it on shutdown.
func StartCronJobs(schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { PurgeExpiredResetCodes(time.Now()) }); err != nil {
		return nil, err
	}
	c.Start()
	logger.L().Info("cron scheduler started", zap.String("purge_schedule", schedule))
	return c, nil
}

// PurgeExpiredResetCodes deletes reset codes that expired before now.
func PurgeExpiredResetCodes(now time.Time) int64 {
	res := db.DB.Where("expires_at <= ?", now).Delete(&models.PasswordReset{})
	if res.Error != nil {
		logger.L().Error("purging reset codes", zap.Error(res.Error))
		return 0
	}
	if res.RowsAffected > 0 {
		metrics.ResetCodesPurged.Add(float64(res.RowsAffected))
		logger.L().Info("purged expired reset codes", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected
}
