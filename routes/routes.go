package routes

import (
	"os"
	"reminderpro-backend/config"
	"reminderpro-backend/controllers"
	"reminderpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	frontendOrigin := os.Getenv("FRONTEND_ORIGIN")
	if frontendOrigin == "" {
		frontendOrigin = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Provider callbacks are unauthenticated; Twilio signs requests,
	// not bearer tokens.
	r.POST("/webhooks/twilio/status", controllers.TwilioStatusWebhook)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public tier catalogue
	r.GET("/tiers", controllers.ListTiers)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Event routes
		events := api.Group("/events")
		{
			events.POST("", controllers.CreateEvent)
			events.GET("", controllers.GetEvents)
			events.GET("/:id", controllers.GetEvent)
			events.PUT("/:id", controllers.UpdateEvent)
			events.DELETE("/:id", controllers.DeleteEvent)
			events.POST("/:id/activate", controllers.ActivateEvent)
			events.POST("/:id/deactivate", controllers.DeactivateEvent)
		}

		// Profile and emergency contact routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.GET("/emergency-contacts", controllers.GetEmergencyContacts)
			profile.POST("/emergency-contacts", controllers.CreateEmergencyContact)
			profile.DELETE("/emergency-contacts/:id", controllers.DeleteEmergencyContact)
		}

		// Admin surface
		admin := api.Group("/admin", utils.StaffOnly())
		{
			admin.GET("/tasks", controllers.GetAdminTaskQueue)
			admin.GET("/notifications/stats", controllers.GetNotificationStats)
			admin.GET("/events/:id/notifications", controllers.GetEventNotifications)
			admin.POST("/users/:id/verify-email", controllers.VerifyUserEmail)
		}
	}

	return r
}
