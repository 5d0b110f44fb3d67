// services/scheduler.go
package services

import (
	"log"
	"time"

	cron "github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the batch processor on a daily schedule. The
// returned cron can be stopped by the caller on shutdown.
func StartScheduler(db *gorm.DB, sender MessageSender) *cron.Cron {
	c := cron.New()

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		NewNotificationProcessor(db, sender).Run(time.Now())
	})

	c.Start()
	log.Println("Notification scheduler started")
	return c
}
