package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
)

// DeleteProductHandler handles DELETE /api/products/:id (admin only). The
// delete is soft, so existing order items keep a valid reference.
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(db, c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		if err := db.Delete(product).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully."})
	}
}
