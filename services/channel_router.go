// services/channel_router.go
package services

import (
	"errors"
	"fmt"

	"reminderpro-backend/models"

	"gorm.io/gorm"
)

var (
	// ErrNoRecipient means the user has no contact info for the channel.
	ErrNoRecipient = errors.New("no recipient address found")
	// ErrUnsupportedChannel means the channel tag has no automated transport.
	ErrUnsupportedChannel = errors.New("unsupported sending channel")
)

// ResolveRecipient maps an automated channel tag to the contact address
// to use for the given user. Manual outreach channels are not resolved
// here; the batch processor diverts those to admin task creation.
func ResolveRecipient(db *gorm.DB, user *models.User, channel string) (string, error) {
	var recipient string

	switch channel {
	case models.ChannelPrimaryEmail:
		recipient = user.Email
	case models.ChannelBackupEmail:
		recipient = user.BackupEmail
	case models.ChannelPrimarySMS:
		recipient = user.Phone
	case models.ChannelBackupSMS:
		recipient = user.BackupPhone
	case models.ChannelEmergencyContactEmail:
		var contact models.EmergencyContact
		err := db.Where("user_id = ?", user.ID).Order("created_at asc").First(&contact).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		recipient = contact.Email
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedChannel, channel)
	}

	if recipient == "" {
		return "", fmt.Errorf("%w for channel '%s'", ErrNoRecipient, channel)
	}
	return recipient, nil
}

// IsEmailChannel reports whether the channel delivers over email.
func IsEmailChannel(channel string) bool {
	switch channel {
	case models.ChannelPrimaryEmail, models.ChannelBackupEmail, models.ChannelEmergencyContactEmail:
		return true
	}
	return false
}

// IsSMSChannel reports whether the channel delivers over SMS.
func IsSMSChannel(channel string) bool {
	return channel == models.ChannelPrimarySMS || channel == models.ChannelBackupSMS
}
