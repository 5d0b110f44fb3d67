// services/schedule_service.go
package services

import (
	"fmt"
	"time"

	"reminderpro-backend/models"

	"gorm.io/gorm"
)

// ClearPendingNotifications removes every pending notification for an
// event. Notifications already sent, failed or delivered are preserved
// as history.
func ClearPendingNotifications(db *gorm.DB, eventID interface{}) error {
	return db.Where("event_id = ? AND status = ?", eventID, models.StatusPending).
		Delete(&models.Notification{}).Error
}

// ScheduleNotificationsForEvent generates an evenly-distributed
// notification schedule for an event from its tier's manifest.
//
// It is idempotent and safe to call on every event save: any existing
// pending schedule is replaced, and an event that fails the
// preconditions (inactive, no tier, start date on or after the event
// date) simply ends up with zero pending notifications.
func ScheduleNotificationsForEvent(db *gorm.DB, event *models.Event) error {
	if err := ClearPendingNotifications(db, event.ID); err != nil {
		return fmt.Errorf("clear pending notifications: %w", err)
	}

	if !event.IsActive || event.TierID == nil ||
		event.NotificationStartDate.IsZero() || event.EventDate.IsZero() ||
		!event.NotificationStartDate.Before(event.EventDate) {
		return nil
	}

	var tier models.Tier
	if err := db.First(&tier, "id = ?", *event.TierID).Error; err != nil {
		return fmt.Errorf("load tier: %w", err)
	}

	manifest := tier.Manifest
	if len(manifest) == 0 {
		return nil
	}

	// Spread the notifications across the lead time. The last send time
	// lands one interval before the event date, leaving time to act.
	totalDuration := event.EventDate.Sub(event.NotificationStartDate)
	var interval time.Duration
	if len(manifest) > 1 {
		interval = totalDuration / time.Duration(len(manifest))
	}

	for i, channel := range manifest {
		notification := models.Notification{
			EventID:           event.ID,
			UserID:            event.UserID,
			Channel:           channel,
			ScheduledSendTime: event.NotificationStartDate.Add(time.Duration(i) * interval),
			Status:            models.StatusPending,
		}
		if err := db.Create(&notification).Error; err != nil {
			return fmt.Errorf("create notification %d for event %s: %w", i, event.ID, err)
		}
	}

	return nil
}
