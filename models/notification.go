package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification channel tags. The first five resolve to a contact field
// on the owning user and are sent automatically; the last three are
// manual outreach channels handled through admin tasks.
const (
	ChannelPrimaryEmail          = "primary_email"
	ChannelBackupEmail           = "backup_email"
	ChannelPrimarySMS            = "primary_sms"
	ChannelBackupSMS             = "backup_sms"
	ChannelEmergencyContactEmail = "emergency_contact_email"
	ChannelAdminCall             = "admin_call"
	ChannelSocialMedia           = "social_media"
	ChannelEmergencyContact      = "emergency_contact"
)

// Notification status values.
const (
	StatusPending          = "pending"
	StatusInProgress       = "in_progress"
	StatusSent             = "sent"
	StatusFailed           = "failed"
	StatusDelivered        = "delivered"
	StatusAdminTaskCreated = "admin_task_created"
	StatusCancelled        = "cancelled"
)

// IsManualChannel reports whether a channel is handled by operator
// outreach instead of an automated transport.
func IsManualChannel(channel string) bool {
	switch channel {
	case ChannelAdminCall, ChannelSocialMedia, ChannelEmergencyContact:
		return true
	}
	return false
}

// Notification is a single scheduled communication for an event. The
// recipient contact info is looked up at send time, not at schedule
// time, so later profile changes are picked up naturally.
type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Denormalized from the event for query convenience; the user is
	// owned by the account subsystem.
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Channel           string    `gorm:"type:varchar(30);not null"`
	ScheduledSendTime time.Time `gorm:"index:idx_status_scheduled,priority:2;not null"`
	Status            string    `gorm:"type:varchar(20);default:'pending';index:idx_status_scheduled,priority:1"`

	// Populated with the contact info actually used once sent.
	RecipientContactInfo string
	// Provider message identifier, SMS only. Matched by the delivery
	// status webhook. The column is tagged explicitly because the
	// default naming would split the SID initialism.
	MessageSID    string `gorm:"column:message_sid;index"`
	FailureReason string `gorm:"type:text"`

	Event Event `gorm:"foreignKey:EventID"`
	User  User  `gorm:"foreignKey:UserID"`

	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
