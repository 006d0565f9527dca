package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	authControllers "github.com/Mahir-Faysal/Mini-E-Commerce-API/controllers/auth"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
)

func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", authControllers.RegisterHandler(db, cfg.JWTSecret, cfg.JWTExpiry))
		auth.POST("/login", authControllers.LoginHandler(db, cfg.JWTSecret, cfg.JWTExpiry))
		auth.GET("/profile",
			middleware.Authenticate(db, cfg.JWTSecret),
			authControllers.ProfileHandler())
	}
}
