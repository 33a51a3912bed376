package main

import (
	"fmt"
	"log"
	"os"

	"crmpro-backend/config"
	"crmpro-backend/models"
	"crmpro-backend/routes"
	"crmpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	if err := config.DB.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	monitor := config.NewMonitor(config.DB, 3)
	if err := monitor.Start(); err != nil {
		log.Fatalf("Failed to start health monitor: %v", err)
	}
	defer monitor.Stop()

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	r := routes.SetupRouter(config.DB, monitor)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
