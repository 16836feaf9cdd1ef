package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-loyalty/config"
	"github.com/yeremiapane/restaurant-loyalty/models"
	"github.com/yeremiapane/restaurant-loyalty/router"
	"github.com/yeremiapane/restaurant-loyalty/services"
	"github.com/yeremiapane/restaurant-loyalty/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Backfill terjadwal opsional; operasinya idempoten jadi aman diulang
	if mins, err := strconv.Atoi(os.Getenv("BACKFILL_INTERVAL_MINUTES")); err == nil && mins > 0 {
		scheduler := services.NewBackfillScheduler(
			services.NewMigrationService(db),
			time.Duration(mins)*time.Minute,
		)
		scheduler.Start()
		defer scheduler.Stop()
		utils.InfoLogger.Printf("Backfill scheduler running every %d minute(s)", mins)
	}

	// Setup router
	r := router.SetupRouter(db)

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.Customer{},
		&models.OrderHistoryEntry{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
