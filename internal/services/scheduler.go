package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/pkg/logger"
	"gorm.io/gorm"
)

// StartInviteExpiryScheduler sweeps overdue PENDING invites to EXPIRED on
// an hourly schedule. Reads still expire lazily; the sweep keeps listings
// for inactive users from accumulating stale PENDING rows.
func StartInviteExpiryScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	sweep := func() {
		result := db.Model(&models.ProjectInvite{}).
			Where("status = ? AND expires_at < ?", models.InviteStatusPending, time.Now()).
			Update("status", models.InviteStatusExpired)
		if result.Error != nil {
			logger.Error().Err(result.Error).Msg("invite expiry sweep failed")
			return
		}
		if result.RowsAffected > 0 {
			logger.Info().Int64("expired", result.RowsAffected).Msg("invite expiry sweep")
		}
	}

	// Run once at startup, then hourly.
	sweep()
	c.AddFunc("@every 1h", sweep)
	c.Start()
	return c
}
