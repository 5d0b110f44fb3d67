package models

import (
	"reminderpro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a single reminder target created by a user. Notifications
// are distributed between NotificationStartDate and EventDate according
// to the tier's manifest.
type Event struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID  `gorm:"type:uuid;index;not null"`
	TierID *uuid.UUID `gorm:"type:uuid;index"`

	Name           string    `gorm:"not null"`
	EventDate      time.Time `gorm:"not null"`
	WeeksInAdvance int       `gorm:"default:4"`

	// Computed from EventDate and WeeksInAdvance on every save path.
	NotificationStartDate time.Time

	Notes string `gorm:"type:text"`

	// Activated explicitly, normally upon successful payment.
	IsActive bool `gorm:"default:false"`

	User User  `gorm:"foreignKey:UserID"`
	Tier *Tier `gorm:"foreignKey:TierID"`

	Notifications []Notification `gorm:"foreignKey:EventID"`

	gorm.Model
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// RecalculateStartDate derives NotificationStartDate from the event date
// and lead time, normalized to midnight UTC so schedules computed on
// different days stay comparable.
func (e *Event) RecalculateStartDate() {
	day := utils.BeginningOfDay(e.EventDate.In(time.UTC))
	e.EventDate = day
	e.NotificationStartDate = day.AddDate(0, 0, -7*e.WeeksInAdvance)
}
