package cron

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPurgeExpiredResetCodes(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cron.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.PasswordReset{}))
	db.DB = conn

	now := time.Now()
	require.NoError(t, conn.Create(&[]models.PasswordReset{
		{Email: "old@example.com", Code: "111111", ExpiresAt: now.Add(-time.Minute)},
		{Email: "live@example.com", Code: "222222", ExpiresAt: now.Add(10 * time.Minute)},
	}).Error)

	assert.Equal(t, int64(1), PurgeExpiredResetCodes(now))

	var left []models.PasswordReset
	require.NoError(t, conn.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "live@example.com", left[0].Email)
}

func TestStartCronJobsRejectsBadSchedule(t *testing.T) {
	_, err := StartCronJobs("not a schedule")
	assert.Error(t, err)
}
