package controllers

import (
	"net/http"
	"reminderpro-backend/config"
	"reminderpro-backend/models"
	"reminderpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	BackupEmail     *string `json:"backupEmail"`
	BackupPhone     *string `json:"backupPhone"`
	FacebookHandle  *string `json:"facebookHandle"`
	InstagramHandle *string `json:"instagramHandle"`
	SnapchatHandle  *string `json:"snapchatHandle"`
	XHandle         *string `json:"xHandle"`
}

type CreateEmergencyContactInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
}

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var user models.User
	if err := config.DB.Preload("EmergencyContacts").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              user.Name,
		"email":             user.Email,
		"phone":             user.Phone,
		"backupEmail":       user.BackupEmail,
		"backupPhone":       user.BackupPhone,
		"facebookHandle":    user.FacebookHandle,
		"instagramHandle":   user.InstagramHandle,
		"snapchatHandle":    user.SnapchatHandle,
		"xHandle":           user.XHandle,
		"isEmailVerified":   user.IsEmailVerified,
		"emergencyContacts": user.EmergencyContacts,
	})
}

func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		updates["phone"] = *input.Phone
	}
	if input.BackupEmail != nil {
		updates["backup_email"] = *input.BackupEmail
	}
	if input.BackupPhone != nil {
		if *input.BackupPhone != "" && !utils.ValidatePhone(*input.BackupPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid backup phone number format")
			return
		}
		updates["backup_phone"] = *input.BackupPhone
	}
	if input.FacebookHandle != nil {
		updates["facebook_handle"] = *input.FacebookHandle
	}
	if input.InstagramHandle != nil {
		updates["instagram_handle"] = *input.InstagramHandle
	}
	if input.SnapchatHandle != nil {
		updates["snapchat_handle"] = *input.SnapchatHandle
	}
	if input.XHandle != nil {
		updates["x_handle"] = *input.XHandle
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// GetEmergencyContacts lists the caller's emergency contacts
func GetEmergencyContacts(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var contacts []models.EmergencyContact
	if err := config.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve emergency contacts")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// CreateEmergencyContact adds an emergency contact for the caller
func CreateEmergencyContact(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input CreateEmergencyContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	contact := models.EmergencyContact{
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create emergency contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// DeleteEmergencyContact removes one of the caller's emergency contacts
func DeleteEmergencyContact(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	res := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.EmergencyContact{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete emergency contact")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Emergency contact not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Emergency contact deleted"})
}
