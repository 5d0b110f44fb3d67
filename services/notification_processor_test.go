package services

import (
	"errors"
	"testing"
	"time"

	"reminderpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pendingNotification(t *testing.T, db *gorm.DB, user *models.User, channel string, sendAt time.Time) *models.Notification {
	t.Helper()

	tier := createTier(t, db, "T-"+randomSuffix(), models.Manifest{channel})
	event := createEvent(t, db, user, tier, 30, 2)
	n := &models.Notification{
		EventID:           event.ID,
		UserID:            user.ID,
		Channel:           channel,
		ScheduledSendTime: sendAt,
		Status:            models.StatusPending,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func reload(t *testing.T, db *gorm.DB, n *models.Notification) *models.Notification {
	t.Helper()
	var fresh models.Notification
	require.NoError(t, db.First(&fresh, "id = ?", n.ID).Error)
	return &fresh
}

func TestProcessor_SendsDueEmailAndSMS(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)

	email := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())
	sms := pendingNotification(t, db, user, models.ChannelPrimarySMS, baseDay().AddDate(0, 0, 5))

	sender := &fakeSender{}
	result := NewNotificationProcessor(db, sender).Run(asOf)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Sent)
	assert.Zero(t, result.Failed)

	fresh := reload(t, db, email)
	assert.Equal(t, models.StatusSent, fresh.Status)
	assert.Equal(t, user.Email, fresh.RecipientContactInfo)
	assert.Empty(t, fresh.MessageSID)

	fresh = reload(t, db, sms)
	assert.Equal(t, models.StatusSent, fresh.Status)
	assert.Equal(t, user.Phone, fresh.RecipientContactInfo)
	assert.NotEmpty(t, fresh.MessageSID, "SMS keeps the provider SID for the status webhook")
}

func TestProcessor_FutureNotificationsUntouched(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)

	future := pendingNotification(t, db, user, models.ChannelPrimaryEmail, asOf.Add(time.Hour))

	sender := &fakeSender{}
	result := NewNotificationProcessor(db, sender).Run(asOf)

	assert.Zero(t, result.Processed)
	assert.Equal(t, models.StatusPending, reload(t, db, future).Status)
	assert.Empty(t, sender.emails)
}

func TestProcessor_SkipsUnverifiedUsers(t *testing.T) {
	db := setupTestDB(t)
	unverified := createUser(t, db, func(u *models.User) { u.IsEmailVerified = false })
	n := pendingNotification(t, db, unverified, models.ChannelPrimaryEmail, baseDay())

	result := NewNotificationProcessor(db, &fakeSender{}).Run(baseDay().AddDate(0, 0, 1))

	assert.Zero(t, result.Processed)
	assert.Equal(t, models.StatusPending, reload(t, db, n).Status)
}

func TestProcessor_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)
	pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())

	sender := &fakeSender{}
	processor := NewNotificationProcessor(db, sender)

	first := processor.Run(asOf)
	second := processor.Run(asOf)

	assert.Equal(t, 1, first.Sent)
	assert.Zero(t, second.Processed, "second run at the same time finds nothing due")
	assert.Len(t, sender.emails, 1)
}

func TestProcessor_FailureReasons(t *testing.T) {
	asOf := baseDay().AddDate(0, 0, 10)

	t.Run("no recipient", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, db, func(u *models.User) { u.BackupEmail = "" })
		n := pendingNotification(t, db, user, models.ChannelBackupEmail, baseDay())

		result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

		assert.Equal(t, 1, result.Failed)
		fresh := reload(t, db, n)
		assert.Equal(t, models.StatusFailed, fresh.Status)
		assert.Contains(t, fresh.FailureReason, "no recipient address")
	})

	t.Run("unsupported channel", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, db, nil)
		n := pendingNotification(t, db, user, "carrier_pigeon", baseDay())

		result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

		assert.Equal(t, 1, result.Failed)
		fresh := reload(t, db, n)
		assert.Equal(t, models.StatusFailed, fresh.Status)
		assert.Contains(t, fresh.FailureReason, "unsupported sending channel")
	})

	t.Run("transport rejected", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, db, nil)
		n := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())

		result := NewNotificationProcessor(db, &fakeSender{failEmail: true}).Run(asOf)

		assert.Equal(t, 1, result.Failed)
		fresh := reload(t, db, n)
		assert.Equal(t, models.StatusFailed, fresh.Status)
		assert.Contains(t, fresh.FailureReason, "transport rejected")
	})
}

func TestProcessor_OneFailureDoesNotAbortBatch(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)

	bad := pendingNotification(t, db, user, "carrier_pigeon", baseDay())
	good := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay().AddDate(0, 0, 1))

	result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, models.StatusFailed, reload(t, db, bad).Status)
	assert.Equal(t, models.StatusSent, reload(t, db, good).Status)
}

func TestProcessor_FailedRowsAreRetried(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)
	n := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())

	failing := &fakeSender{failEmail: true}
	NewNotificationProcessor(db, failing).Run(asOf)
	require.Equal(t, models.StatusFailed, reload(t, db, n).Status)

	// The transport recovers; the failed row is picked up like a
	// fresh pending one.
	working := &fakeSender{}
	result := NewNotificationProcessor(db, working).Run(asOf)

	assert.Equal(t, 1, result.Sent)
	fresh := reload(t, db, n)
	assert.Equal(t, models.StatusSent, fresh.Status)
	assert.Empty(t, fresh.FailureReason, "a successful send clears the old failure reason")
}

func TestProcessor_EscalatesManualChannels(t *testing.T) {
	db := setupTestDB(t)
	_, _ = setupAdmin(t, db)
	user := createUser(t, db, func(u *models.User) {
		u.FacebookHandle = "fb"
		u.InstagramHandle = "ig"
	})
	asOf := baseDay().AddDate(0, 0, 10)
	n := pendingNotification(t, db, user, models.ChannelSocialMedia, baseDay())

	result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	assert.Equal(t, 2, result.AdminTasks)
	fresh := reload(t, db, n)
	assert.Equal(t, models.StatusAdminTaskCreated, fresh.Status)
	assert.Contains(t, fresh.RecipientContactInfo, "2 admin task(s) created")
}

func TestProcessor_EscalationWithoutSurfacesFails(t *testing.T) {
	db := setupTestDB(t)
	_, _ = setupAdmin(t, db)
	user := createUser(t, db, nil) // no social handles
	asOf := baseDay().AddDate(0, 0, 10)
	n := pendingNotification(t, db, user, models.ChannelSocialMedia, baseDay())

	result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	assert.Equal(t, 1, result.Failed)
	fresh := reload(t, db, n)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Contains(t, fresh.FailureReason, "no outreach surfaces")
}

func TestProcessor_EscalationMisconfigurationSurfaces(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("ADMIN_EMAIL", "") // operational misconfiguration
	user := createUser(t, db, func(u *models.User) { u.FacebookHandle = "fb" })
	asOf := baseDay().AddDate(0, 0, 10)
	n := pendingNotification(t, db, user, models.ChannelSocialMedia, baseDay())

	result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	assert.Equal(t, 1, result.Failed)
	fresh := reload(t, db, n)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Contains(t, fresh.FailureReason, "ADMIN_EMAIL")
}

func TestProcessor_SentSMSRowFoundBySID(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)
	sms := pendingNotification(t, db, user, models.ChannelPrimarySMS, baseDay())

	NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	fresh := reload(t, db, sms)
	require.NotEmpty(t, fresh.MessageSID)

	// The status webhook filters on the raw message_sid column, so the
	// stored SID must be reachable through that exact column name.
	var got models.Notification
	require.NoError(t, db.First(&got, "message_sid = ?", fresh.MessageSID).Error)
	assert.Equal(t, sms.ID, got.ID)
}

func TestProcessor_SentCountsOnlyPersistedRows(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)
	n := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())

	// Fail the update that records the sent status, leaving every other
	// write (claim, watchdog revert, failure marking) untouched.
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("drop_sent_update", func(tx *gorm.DB) {
			if dest, ok := tx.Statement.Dest.(map[string]interface{}); ok {
				if dest["status"] == models.StatusSent {
					tx.AddError(errors.New("connection reset"))
				}
			}
		}))

	sender := &fakeSender{}
	result := NewNotificationProcessor(db, sender).Run(asOf)

	assert.Equal(t, 1, result.Processed)
	assert.Len(t, sender.emails, 1, "the message did leave the transport")
	assert.Zero(t, result.Sent, "an unrecorded send is not reported as sent")
	// The row keeps its claimed status and is requeued by the watchdog
	// on a later run.
	assert.Equal(t, models.StatusInProgress, reload(t, db, n).Status)
}

func TestProcessor_RevertsStuckInProgress(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, nil)
	asOf := baseDay().AddDate(0, 0, 10)

	n := pendingNotification(t, db, user, models.ChannelPrimaryEmail, baseDay())
	// Simulate a crash mid-send well past the timeout.
	stale := asOf.Add(-2 * inProgressTimeout)
	require.NoError(t, db.Model(&models.Notification{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"status":     models.StatusInProgress,
			"updated_at": stale,
		}).Error)

	result := NewNotificationProcessor(db, &fakeSender{}).Run(asOf)

	assert.Equal(t, 1, result.Sent, "the reverted row is sent in the same run")
	assert.Equal(t, models.StatusSent, reload(t, db, n).Status)
}
