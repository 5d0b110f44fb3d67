package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmergencyContact stores an additional person to reach out to on a
// user's behalf. A user can have several; the earliest created one is
// treated as the primary emergency contact.
type EmergencyContact struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Phone     string `gorm:"not null"`
	Email     string

	gorm.Model
}

func (e *EmergencyContact) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
