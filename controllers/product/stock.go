package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
)

type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// UpdateStockHandler handles PATCH /api/products/:id/stock (admin only).
// This is the only blind stock write in the system; checkout and cancellation
// always go through guarded increments and decrements.
func UpdateStockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(db, c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Stock must be a whole number of at least 0."))
			return
		}

		if err := db.Model(product).Update("stock", *req.Stock).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Stock updated successfully.",
			"data":    gin.H{"product": product},
		})
	}
}
