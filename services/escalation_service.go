// services/escalation_service.go
package services

import (
	"fmt"
	"os"

	"reminderpro-backend/models"

	"gorm.io/gorm"
)

// CreateAdminTasks synthesizes operator task pseudo-events for a manual
// outreach notification: one per outreach surface the user actually has
// (each populated social handle, each emergency contact, or a single
// call task). The tasks are events owned by the designated admin
// account on the "Admin Task" tier, so they flow through the same
// scheduling pipeline as everything else.
//
// A missing admin account or admin tier is an operational
// misconfiguration and returns an error; a user with zero outreach
// surfaces legitimately yields a zero count.
func CreateAdminTasks(db *gorm.DB, n *models.Notification) (int, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return 0, fmt.Errorf("ADMIN_EMAIL is not configured")
	}

	var admin models.User
	if err := db.First(&admin, "email = ?", adminEmail).Error; err != nil {
		return 0, fmt.Errorf("admin user '%s' not found: %w", adminEmail, err)
	}

	var taskTier models.Tier
	if err := db.First(&taskTier, "name = ?", models.AdminTaskTierName).Error; err != nil {
		return 0, fmt.Errorf("tier '%s' not found: %w", models.AdminTaskTierName, err)
	}

	user := n.User
	if user.ID != n.UserID {
		if err := db.First(&user, "id = ?", n.UserID).Error; err != nil {
			return 0, fmt.Errorf("load user for notification %s: %w", n.ID, err)
		}
	}

	type surface struct {
		name  string
		notes string
	}
	var surfaces []surface

	switch n.Channel {
	case models.ChannelSocialMedia:
		for _, handle := range user.SocialHandles() {
			surfaces = append(surfaces, surface{
				name: fmt.Sprintf("Manual Post for %s", user.Email),
				notes: fmt.Sprintf("Original User: %s (%s)\nPlatform: %s\nHandle: %s",
					user.Name, user.Email, handle[0], handle[1]),
			})
		}
	case models.ChannelAdminCall:
		if user.Phone != "" {
			surfaces = append(surfaces, surface{
				name: fmt.Sprintf("Manual Call for %s", user.Email),
				notes: fmt.Sprintf("Original User: %s (%s)\nPhone: %s",
					user.Name, user.Email, user.Phone),
			})
		}
	case models.ChannelEmergencyContact:
		var contacts []models.EmergencyContact
		if err := db.Where("user_id = ?", user.ID).Order("created_at asc").Find(&contacts).Error; err != nil {
			return 0, fmt.Errorf("load emergency contacts: %w", err)
		}
		for _, contact := range contacts {
			if contact.Phone == "" {
				continue
			}
			surfaces = append(surfaces, surface{
				name: fmt.Sprintf("Emergency Contact Outreach for %s", user.Email),
				notes: fmt.Sprintf("Original User: %s (%s)\nContact: %s %s\nPhone: %s",
					user.Name, user.Email, contact.FirstName, contact.LastName, contact.Phone),
			})
		}
	default:
		return 0, fmt.Errorf("channel '%s' is not a manual outreach channel", n.Channel)
	}

	created := 0
	for _, s := range surfaces {
		tierID := taskTier.ID
		task := models.Event{
			UserID:         admin.ID,
			TierID:         &tierID,
			Name:           s.name,
			EventDate:      n.ScheduledSendTime,
			WeeksInAdvance: 1,
			Notes:          s.notes,
			IsActive:       true,
		}
		task.RecalculateStartDate()

		if err := db.Create(&task).Error; err != nil {
			return created, fmt.Errorf("create admin task event: %w", err)
		}
		if err := ScheduleNotificationsForEvent(db, &task); err != nil {
			return created, fmt.Errorf("schedule admin task event %s: %w", task.ID, err)
		}
		created++
	}

	return created, nil
}
