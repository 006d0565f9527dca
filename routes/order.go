package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/config"
	orderControllers "github.com/Mahir-Faysal/Mini-E-Commerce-API/controllers/order"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, pub *events.Publisher, cfg *config.Config) {
	orders := api.Group("/orders", middleware.Authenticate(db, cfg.JWTSecret))
	{
		// Customers place orders from their own cart
		orders.POST("",
			middleware.Authorize(models.RoleCustomer),
			orderControllers.PlaceOrderHandler(db, pub))

		// Customers see their own orders, admins see all
		orders.GET("", orderControllers.ListOrdersHandler(db))
		orders.GET("/:id", orderControllers.GetOrderHandler(db))

		// Customers cancel own orders (rate limited), admins cancel any
		orders.PUT("/:id/cancel",
			middleware.Authorize(models.RoleCustomer, models.RoleAdmin),
			orderControllers.CancelOrderHandler(db, pub, cfg.MaxCancellationsPerDay))

		// Admin-only lifecycle transitions
		orders.PATCH("/:id/status",
			middleware.Authorize(models.RoleAdmin),
			orderControllers.UpdateOrderStatusHandler(db, pub))

		// Simulated payment
		orders.POST("/:id/pay",
			middleware.Authorize(models.RoleCustomer, models.RoleAdmin),
			orderControllers.PayOrderHandler(db, pub))
	}
}
