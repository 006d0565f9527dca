package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
)

// SetupRoutes is the single entry point that wires every route group under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB, pub *events.Publisher, cfg *config.Config) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db, cfg)
	SetupProductRoutes(api, db, cfg)
	SetupCartRoutes(api, db, cfg)
	SetupOrderRoutes(api, db, pub, cfg)
}
