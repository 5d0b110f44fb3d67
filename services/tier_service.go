// services/tier_service.go
package services

import (
	"errors"
	"fmt"

	"reminderpro-backend/models"

	"gorm.io/gorm"
)

// Default tier manifests. The order defines the escalation hierarchy
// (cheapest channels first) and the length the notification count.
var defaultTiers = []models.Tier{
	{
		Name: "Free",
		Manifest: models.Manifest{
			models.ChannelPrimaryEmail,
			models.ChannelPrimaryEmail,
		},
	},
	{
		Name: "Standard",
		Manifest: models.Manifest{
			models.ChannelPrimaryEmail,
			models.ChannelBackupEmail,
			models.ChannelPrimaryEmail,
			models.ChannelPrimarySMS,
			models.ChannelPrimaryEmail,
		},
	},
	{
		Name: "Premium",
		Manifest: models.Manifest{
			models.ChannelPrimaryEmail,
			models.ChannelBackupEmail,
			models.ChannelPrimarySMS,
			models.ChannelPrimaryEmail,
			models.ChannelBackupSMS,
			models.ChannelAdminCall,
			models.ChannelPrimaryEmail,
			models.ChannelEmergencyContact,
			models.ChannelSocialMedia,
		},
	},
	{
		// Internal tier for operator task pseudo-events.
		Name: models.AdminTaskTierName,
		Manifest: models.Manifest{
			models.ChannelPrimaryEmail,
		},
	},
}

// EnsureDefaultTiers creates the built-in tiers if they do not exist
// yet. Existing tiers are left untouched, so operators may adjust
// manifests without them being overwritten on restart.
func EnsureDefaultTiers(db *gorm.DB) error {
	for _, tier := range defaultTiers {
		var existing models.Tier
		err := db.Where("name = ?", tier.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up tier '%s': %w", tier.Name, err)
		}
		tier.IsActive = true
		if err := db.Create(&tier).Error; err != nil {
			return fmt.Errorf("create tier '%s': %w", tier.Name, err)
		}
	}
	return nil
}
