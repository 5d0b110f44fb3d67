package controllers

import (
	"log"
	"net/http"
	"reminderpro-backend/config"
	"reminderpro-backend/models"

	"github.com/gin-gonic/gin"
)

// TwilioStatusWebhook handles delivery status callbacks from Twilio.
//
// Twilio posts form-encoded MessageSid/MessageStatus pairs. Only the
// terminal statuses matter: delivered moves a sent notification to
// delivered, failed/undelivered mark it failed with the carrier error
// code. Unknown SIDs are acknowledged with 200 so Twilio does not
// retry; there is nothing to act on for them.
func TwilioStatusWebhook(c *gin.Context) {
	messageSid := c.PostForm("MessageSid")
	messageStatus := c.PostForm("MessageStatus")

	if messageSid == "" {
		log.Printf("Twilio status webhook without MessageSid (status=%q)", messageStatus)
		c.Status(http.StatusBadRequest)
		return
	}

	// Single conditional UPDATE keyed by SID, so a racing batch run
	// cannot interleave between read and write.
	switch messageStatus {
	case "delivered":
		res := config.DB.Model(&models.Notification{}).
			Where("message_sid = ? AND status = ?", messageSid, models.StatusSent).
			Update("status", models.StatusDelivered)
		if res.Error != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		if res.RowsAffected == 0 {
			log.Printf("Twilio delivered callback for unknown or non-sent SID %s", messageSid)
		}
	case "failed", "undelivered":
		errorCode := c.PostForm("ErrorCode")
		res := config.DB.Model(&models.Notification{}).
			Where("message_sid = ? AND status IN ?", messageSid,
				[]string{models.StatusPending, models.StatusInProgress, models.StatusSent}).
			Updates(map[string]interface{}{
				"status":         models.StatusFailed,
				"failure_reason": "Twilio Error Code: " + errorCode,
			})
		if res.Error != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		if res.RowsAffected == 0 {
			log.Printf("Twilio %s callback for unknown SID %s", messageStatus, messageSid)
		}
	default:
		// Interim statuses (queued, sent, ...) carry no state change.
	}

	c.Status(http.StatusOK)
}
