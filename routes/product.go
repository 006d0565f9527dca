package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	productControllers "github.com/Mahir-Faysal/Mini-E-Commerce-API/controllers/product"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	products := api.Group("/products")
	{
		// Public catalog reads
		products.GET("", productControllers.ListProductsHandler(db))
		products.GET("/:id", productControllers.GetProductHandler(db))
	}

	admin := api.Group("/products",
		middleware.Authenticate(db, cfg.JWTSecret),
		middleware.Authorize(models.RoleAdmin))
	{
		admin.POST("", productControllers.CreateProductHandler(db))
		admin.PUT("/:id", productControllers.UpdateProductHandler(db))
		admin.DELETE("/:id", productControllers.DeleteProductHandler(db))
		admin.PATCH("/:id/stock", productControllers.UpdateStockHandler(db))
	}
}
