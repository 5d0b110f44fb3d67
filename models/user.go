package models

import (
	"reminderpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`
	Phone    string

	// Backup contact details, used by the backup_* channels.
	BackupEmail string
	BackupPhone string

	// Social media handles, used by the manual outreach escalation.
	FacebookHandle  string
	InstagramHandle string
	SnapchatHandle  string
	XHandle         string

	IsEmailVerified bool `gorm:"default:false"`
	IsStaff         bool `gorm:"default:false"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	EmergencyContacts []EmergencyContact `gorm:"foreignKey:UserID"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// SocialHandles returns the populated social media handles keyed by
// platform display name, in a stable order.
func (u *User) SocialHandles() [][2]string {
	var handles [][2]string
	if u.FacebookHandle != "" {
		handles = append(handles, [2]string{"Facebook", u.FacebookHandle})
	}
	if u.InstagramHandle != "" {
		handles = append(handles, [2]string{"Instagram", u.InstagramHandle})
	}
	if u.SnapchatHandle != "" {
		handles = append(handles, [2]string{"Snapchat", u.SnapchatHandle})
	}
	if u.XHandle != "" {
		handles = append(handles, [2]string{"X (Twitter)", u.XHandle})
	}
	return handles
}
