package controllers

import (
	"errors"
	"net/http"
	"reminderpro-backend/config"
	"reminderpro-backend/models"
	"reminderpro-backend/services"
	"reminderpro-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEventInput defines the expected JSON structure for creating an event
type CreateEventInput struct {
	Name           string     `json:"name" binding:"required"`
	EventDate      time.Time  `json:"eventDate" binding:"required"`
	WeeksInAdvance int        `json:"weeksInAdvance"`
	TierID         *uuid.UUID `json:"tierId"`
	Notes          string     `json:"notes"`
}

// UpdateEventInput defines the expected JSON structure for updating an event
type UpdateEventInput struct {
	Name           *string    `json:"name"`
	EventDate      *time.Time `json:"eventDate"`
	WeeksInAdvance *int       `json:"weeksInAdvance"`
	TierID         *uuid.UUID `json:"tierId"`
	Notes          *string    `json:"notes"`
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// saveAndReschedule persists the event and then regenerates its
// schedule, reporting the scheduling outcome separately from the save
// so a scheduling problem is never hidden behind a successful save.
func saveAndReschedule(event *models.Event) (string, error) {
	event.RecalculateStartDate()
	if err := config.DB.Save(event).Error; err != nil {
		return "", err
	}
	if err := services.ScheduleNotificationsForEvent(config.DB, event); err != nil {
		return err.Error(), nil
	}
	return "ok", nil
}

// CreateEvent creates a new reminder event for the caller
func CreateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.TierID != nil {
		var tier models.Tier
		if err := config.DB.First(&tier, "id = ?", *input.TierID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown tier")
			return
		}
	}

	event := models.Event{
		UserID:         userID,
		Name:           input.Name,
		EventDate:      input.EventDate,
		WeeksInAdvance: input.WeeksInAdvance,
		TierID:         input.TierID,
		Notes:          input.Notes,
	}
	if event.WeeksInAdvance <= 0 {
		event.WeeksInAdvance = 4
	}

	scheduling, err := saveAndReschedule(&event)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"event":      event,
		"scheduling": scheduling,
	})
}

// GetEvents retrieves all events owned by the caller
func GetEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var events []models.Event
	if err := config.DB.Preload("Tier").Where("user_id = ?", userID).
		Order("event_date desc").Find(&events).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent retrieves a single event with its notifications
func GetEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var event models.Event
	err := config.DB.Preload("Tier").Preload("Notifications").
		Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent updates an event and regenerates its schedule
func UpdateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var event models.Event
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.EventDate != nil {
		event.EventDate = *input.EventDate
	}
	if input.WeeksInAdvance != nil {
		event.WeeksInAdvance = *input.WeeksInAdvance
	}
	if input.TierID != nil {
		var tier models.Tier
		if err := config.DB.First(&tier, "id = ?", *input.TierID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown tier")
			return
		}
		event.TierID = input.TierID
	}
	if input.Notes != nil {
		event.Notes = *input.Notes
	}

	scheduling, err := saveAndReschedule(&event)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":      event,
		"scheduling": scheduling,
	})
}

// ActivateEvent flips an event active and generates its schedule. In
// the full product this happens on payment confirmation.
func ActivateEvent(c *gin.Context) {
	setEventActive(c, true)
}

// DeactivateEvent turns an event off; its pending notifications are
// cleared by the regeneration pass, terminal ones stay as history.
func DeactivateEvent(c *gin.Context) {
	setEventActive(c, false)
}

func setEventActive(c *gin.Context, active bool) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var event models.Event
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	event.IsActive = active
	scheduling, err := saveAndReschedule(&event)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":      event,
		"scheduling": scheduling,
	})
}

// DeleteEvent removes an event and its pending notifications
func DeleteEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var event models.Event
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := services.ClearPendingNotifications(config.DB, event.ID); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}
	if err := config.DB.Delete(&event).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// ListTiers returns the active public tiers
func ListTiers(c *gin.Context) {
	var tiers []models.Tier
	if err := config.DB.Where("is_active = ? AND name <> ?", true, models.AdminTaskTierName).
		Order("name asc").Find(&tiers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tiers")
		return
	}

	out := make([]gin.H, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, gin.H{
			"id":                tier.ID,
			"name":              tier.Name,
			"notificationCount": len(tier.Manifest),
			"manifest":          tier.Manifest,
		})
	}
	c.JSON(http.StatusOK, out)
}
