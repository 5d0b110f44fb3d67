package controllers

import (
	"net/http"
	"os"
	"reminderpro-backend/config"
	"reminderpro-backend/models"
	"reminderpro-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAdminTaskQueue lists the upcoming operator task events, i.e.
// events owned by the designated admin account, soonest first.
func GetAdminTaskQueue(c *gin.Context) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		utils.RespondWithError(c, http.StatusInternalServerError, "ADMIN_EMAIL is not configured")
		return
	}

	var admin models.User
	if err := config.DB.First(&admin, "email = ?", adminEmail).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Admin user not found")
		return
	}

	var tasks []models.Event
	if err := config.DB.Where("user_id = ? AND is_active = ?", admin.ID, true).
		Order("event_date asc").Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve task queue")
		return
	}

	now := time.Now()
	out := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, gin.H{
			"id":        task.ID,
			"name":      task.Name,
			"eventDate": task.EventDate,
			"notes":     task.Notes,
			"daysLeft":  utils.DaysBetween(now, task.EventDate),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetNotificationStats returns notification counts grouped by status
// and by channel for the admin dashboard.
func GetNotificationStats(c *gin.Context) {
	type bucket struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byStatus []bucket
	if err := config.DB.Model(&models.Notification{}).
		Select("status as key, count(*) as count").
		Group("status").Scan(&byStatus).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to aggregate by status")
		return
	}

	var byChannel []bucket
	if err := config.DB.Model(&models.Notification{}).
		Select("channel as key, count(*) as count").
		Group("channel").Scan(&byChannel).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to aggregate by channel")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"byStatus":  byStatus,
		"byChannel": byChannel,
	})
}

// GetEventNotifications lists every notification of one event,
// including terminal history, for admin inspection.
func GetEventNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := config.DB.Where("event_id = ?", c.Param("id")).
		Order("scheduled_send_time asc").Find(&notifications).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// VerifyUserEmail marks a user's email as verified, which makes their
// notifications eligible for batch processing.
func VerifyUserEmail(c *gin.Context) {
	res := config.DB.Model(&models.User{}).
		Where("id = ?", c.Param("id")).
		Update("is_email_verified", true)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email marked as verified"})
}
