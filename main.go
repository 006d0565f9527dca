package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/routes"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/seed"
)

func main() {
	log.Println("Starting Mini E-Commerce API...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.Load()
	apperrors.SetDevMode(cfg.IsDevelopment())

	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// `go run . seed` populates demo users and products, then exits.
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Run(db); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Println("Seed complete.")
		return
	}

	// In-process order event stream; consumed here just for logging.
	pub, ch := events.NewGoChannel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := events.LogOrderEvents(ctx, ch); err != nil {
		log.Fatalf("Failed to subscribe to order events: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// API overview
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Mini E-Commerce API is running",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":     "/api/auth",
				"products": "/api/products",
				"cart":     "/api/cart",
				"orders":   "/api/orders",
			},
		})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s %s not found.", c.Request.Method, c.Request.URL.Path),
		})
	})

	routes.SetupRoutes(r, db, pub, cfg)

	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection.
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}
