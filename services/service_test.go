package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"reminderpro-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database migrated with the full
// schema. Each test gets its own database, named after the test so
// parallel packages cannot collide.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EmergencyContact{},
		&models.Tier{},
		&models.Event{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:           fmt.Sprintf("user-%s@example.com", randomSuffix()),
		Password:        "str0ngpassword",
		Name:            "Test User",
		Phone:           "+15550001111",
		IsEmailVerified: true,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTier(t *testing.T, db *gorm.DB, name string, manifest models.Manifest) *models.Tier {
	t.Helper()

	tier := &models.Tier{Name: name, Manifest: manifest, IsActive: true}
	require.NoError(t, db.Create(tier).Error)
	return tier
}

// createEvent builds an active event whose event date is daysAhead days
// from the fixed base day, with the given lead time in weeks.
func createEvent(t *testing.T, db *gorm.DB, user *models.User, tier *models.Tier, daysAhead, weeks int) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:         user.ID,
		Name:           "Annual Checkup",
		EventDate:      baseDay().AddDate(0, 0, daysAhead),
		WeeksInAdvance: weeks,
		IsActive:       true,
	}
	if tier != nil {
		event.TierID = &tier.ID
	}
	event.RecalculateStartDate()
	require.NoError(t, db.Create(event).Error)
	return event
}

// baseDay is an arbitrary fixed midnight-UTC anchor for schedule math.
func baseDay() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

var suffixCounter int

func randomSuffix() string {
	suffixCounter++
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), suffixCounter)
}

// fakeSender records outgoing messages and can be told to fail.
type fakeSender struct {
	emails    []string
	smses     []string
	failEmail bool
	failSMS   bool
	sidPrefix string
}

func (f *fakeSender) SendEmail(n *models.Notification, to string) error {
	if f.failEmail {
		return errors.New("smtp connection refused")
	}
	f.emails = append(f.emails, to)
	return nil
}

func (f *fakeSender) SendSMS(n *models.Notification, to string) (string, error) {
	if f.failSMS {
		return "", errors.New("twilio 401 unauthorized")
	}
	f.smses = append(f.smses, to)
	prefix := f.sidPrefix
	if prefix == "" {
		prefix = "SM"
	}
	return fmt.Sprintf("%s%d", prefix, len(f.smses)), nil
}

func loadNotifications(t *testing.T, db *gorm.DB, eventID interface{}) []models.Notification {
	t.Helper()

	var notifications []models.Notification
	require.NoError(t, db.Where("event_id = ?", eventID).
		Order("scheduled_send_time asc").Find(&notifications).Error)
	return notifications
}
