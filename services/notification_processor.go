// services/notification_processor.go
package services

import (
	"fmt"
	"log"
	"time"

	"reminderpro-backend/models"

	"gorm.io/gorm"
)

// inProgressTimeout is how long a notification may sit in_progress
// before the watchdog assumes the sending process crashed and reverts
// it to pending for the next run.
const inProgressTimeout = 30 * time.Minute

// ProcessResult reports the outcome of one batch run.
type ProcessResult struct {
	Processed  int `json:"processed"`
	Sent       int `json:"sent"`
	AdminTasks int `json:"adminTasks"`
	Failed     int `json:"failed"`
}

// NotificationProcessor drives due notifications through the send
// lifecycle. Failed rows are selected exactly like pending ones, so a
// previously failed attempt is retried on the next run with no
// dedicated retry bookkeeping.
type NotificationProcessor struct {
	db     *gorm.DB
	sender MessageSender
}

func NewNotificationProcessor(db *gorm.DB, sender MessageSender) *NotificationProcessor {
	return &NotificationProcessor{db: db, sender: sender}
}

// Run processes every notification due as of the given time. One
// notification's failure never aborts the rest of the batch.
func (p *NotificationProcessor) Run(asOf time.Time) ProcessResult {
	log.Printf("[%s] Starting notification processing job...", asOf.Format(time.RFC3339))

	p.revertStuckInProgress(asOf)

	var due []models.Notification
	err := p.db.
		Joins("JOIN users ON users.id = notifications.user_id AND users.deleted_at IS NULL").
		Where("notifications.status IN ?", []string{models.StatusPending, models.StatusFailed}).
		Where("notifications.scheduled_send_time <= ?", asOf).
		Where("users.is_email_verified = ?", true).
		Preload("Event").
		Preload("User").
		Order("notifications.scheduled_send_time asc").
		Find(&due).Error
	if err != nil {
		log.Printf("Failed to query due notifications: %v", err)
		return ProcessResult{}
	}

	if len(due) == 0 {
		log.Println("No pending or failed notifications to send.")
		return ProcessResult{}
	}

	log.Printf("Found %d notifications to process.", len(due))

	var result ProcessResult
	for i := range due {
		p.processOne(&due[i], &result)
	}

	log.Printf("Notification processing job finished. Sent: %d, admin tasks: %d, failed: %d",
		result.Sent, result.AdminTasks, result.Failed)
	return result
}

// processOne claims and sends a single notification, recovering from
// panics so the offending row is marked failed and the batch continues.
func (p *NotificationProcessor) processOne(n *models.Notification, result *ProcessResult) {
	defer func() {
		if r := recover(); r != nil {
			p.markFailed(n, fmt.Sprintf("unhandled error: %v", r))
			result.Failed++
		}
	}()

	// Optimistic claim: only one run may move the row out of
	// pending/failed. An overlapping batch run finds zero rows affected
	// and skips.
	claim := p.db.Model(&models.Notification{}).
		Where("id = ? AND status IN ?", n.ID, []string{models.StatusPending, models.StatusFailed}).
		Update("status", models.StatusInProgress)
	if claim.Error != nil {
		p.markFailed(n, fmt.Sprintf("claim failed: %v", claim.Error))
		result.Failed++
		return
	}
	if claim.RowsAffected == 0 {
		return // already claimed elsewhere
	}
	result.Processed++

	if models.IsManualChannel(n.Channel) {
		p.escalate(n, result)
		return
	}

	recipient, err := ResolveRecipient(p.db, &n.User, n.Channel)
	if err != nil {
		p.markFailed(n, err.Error())
		result.Failed++
		return
	}

	var sid string
	switch {
	case IsEmailChannel(n.Channel):
		err = p.sender.SendEmail(n, recipient)
	case IsSMSChannel(n.Channel):
		sid, err = p.sender.SendSMS(n, recipient)
	default:
		err = fmt.Errorf("%w: '%s'", ErrUnsupportedChannel, n.Channel)
	}

	if err != nil {
		p.markFailed(n, fmt.Sprintf("transport rejected: %v", err))
		result.Failed++
		return
	}

	updates := map[string]interface{}{
		"status":                 models.StatusSent,
		"recipient_contact_info": recipient,
		"message_sid":            sid,
		"failure_reason":         "", // clear any previous failure
	}
	if err := p.db.Model(&models.Notification{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		// The message left the transport but the row keeps its claimed
		// status, so the watchdog will requeue it. Counting it as sent
		// would overstate what the database reflects.
		log.Printf("Notification %s sent but status update failed: %v", n.ID, err)
		return
	}
	result.Sent++
	log.Printf("Notification %s sent via %s. SID: %s", n.ID, n.Channel, orNA(sid))
}

// escalate hands a manual outreach notification to the admin task
// generator and records the outcome.
func (p *NotificationProcessor) escalate(n *models.Notification, result *ProcessResult) {
	count, err := CreateAdminTasks(p.db, n)
	if err != nil {
		p.markFailed(n, fmt.Sprintf("escalation failed: %v", err))
		result.Failed++
		return
	}
	if count == 0 {
		// The user has no outreach surface yet; mark failed so the row
		// shows up in operator counts and is retried next run.
		p.markFailed(n, "no outreach surfaces configured")
		result.Failed++
		return
	}

	updates := map[string]interface{}{
		"status":                 models.StatusAdminTaskCreated,
		"recipient_contact_info": fmt.Sprintf("%d admin task(s) created", count),
		"failure_reason":         "",
	}
	if err := p.db.Model(&models.Notification{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		log.Printf("Notification %s escalated but status update failed: %v", n.ID, err)
	}
	result.AdminTasks += count
	log.Printf("Notification %s escalated via %s: %d admin task(s) created", n.ID, n.Channel, count)
}

func (p *NotificationProcessor) markFailed(n *models.Notification, reason string) {
	err := p.db.Model(&models.Notification{}).Where("id = ?", n.ID).Updates(map[string]interface{}{
		"status":         models.StatusFailed,
		"failure_reason": reason,
	}).Error
	if err != nil {
		log.Printf("Failed to mark notification %s as failed: %v", n.ID, err)
	}
	log.Printf("Notification %s failed: %s", n.ID, reason)
}

// revertStuckInProgress returns rows abandoned mid-send by a crashed
// process to the pending pool.
func (p *NotificationProcessor) revertStuckInProgress(asOf time.Time) {
	cutoff := asOf.Add(-inProgressTimeout)
	res := p.db.Model(&models.Notification{}).
		Where("status = ? AND updated_at < ?", models.StatusInProgress, cutoff).
		Update("status", models.StatusPending)
	if res.Error != nil {
		log.Printf("Failed to revert stuck in_progress notifications: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Reverted %d stuck in_progress notification(s) to pending", res.RowsAffected)
	}
}

func orNA(sid string) string {
	if sid == "" {
		return "N/A"
	}
	return sid
}
