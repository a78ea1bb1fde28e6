package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dinetap/dinetap/config"
	"github.com/dinetap/dinetap/middlewares"
	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/router"
	"github.com/dinetap/dinetap/services"
	"github.com/dinetap/dinetap/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedSuperAdmin(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	sweeper := services.NewTokenSweeper(db)
	sweeper.Start()
	defer sweeper.Stop()

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

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
		&models.Restaurant{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Bill{},
		&models.BillItem{},
		&models.SalesHistory{},
		&models.SalesItem{},
		&models.AuthToken{},
		&models.BillSequence{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedSuperAdmin creates the cross-tenant management account from env once.
func seedSuperAdmin(db *gorm.DB) {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.Restaurant{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Error hashing superadmin password: %v", err)
		return
	}

	super := models.Restaurant{
		AdminUID: "superadmin",
		Name:     "Super Admin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
	}
	if err := db.Create(&super).Error; err != nil {
		utils.ErrorLogger.Printf("Error seeding superadmin: %v", err)
		return
	}
	utils.InfoLogger.Println("Superadmin account seeded.")
}
