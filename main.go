package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"reminderpro-backend/config"
	"reminderpro-backend/models"
	"reminderpro-backend/routes"
	"reminderpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.EmergencyContact{},
		&models.Tier{},
		&models.Event{},
		&models.Notification{},
	)

	if err := services.EnsureDefaultTiers(config.DB); err != nil {
		log.Fatalf("Failed to seed default tiers: %v", err)
	}
}

func main() {
	processOnce := flag.Bool("process", false, "run one notification batch pass and exit")
	asOfDate := flag.String("date", "", "process as-if it is this date (YYYY-MM-DD), defaults to now")
	flag.Parse()

	sender := services.NewTwilioSMTPSender()

	if *processOnce {
		asOf := time.Now()
		if *asOfDate != "" {
			day, err := time.Parse("2006-01-02", *asOfDate)
			if err != nil {
				log.Fatalf("Invalid date format, use YYYY-MM-DD: %v", err)
			}
			now := time.Now()
			asOf = time.Date(day.Year(), day.Month(), day.Day(),
				now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
			log.Printf("Running notification processing for simulated date: %s", *asOfDate)
		}
		result := services.NewNotificationProcessor(config.DB, sender).Run(asOf)
		log.Printf("Successfully sent: %d", result.Sent)
		log.Printf("Admin tasks created: %d", result.AdminTasks)
		log.Printf("Failed to send: %d", result.Failed)
		return
	}

	scheduler := services.StartScheduler(config.DB, sender)
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
