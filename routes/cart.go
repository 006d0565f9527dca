package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	cartControllers "github.com/Mahir-Faysal/Mini-E-Commerce-API/controllers/cart"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cart := api.Group("/cart",
		middleware.Authenticate(db, cfg.JWTSecret),
		middleware.Authorize(models.RoleCustomer))
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		cart.POST("/items", cartControllers.AddItemHandler(db))
		cart.PUT("/items/:itemID", cartControllers.UpdateItemHandler(db))
		cart.DELETE("/items/:itemID", cartControllers.RemoveItemHandler(db))
		cart.DELETE("", cartControllers.ClearCartHandler(db))
	}
}
