package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"omitempty,min=0"`
	ImageURL    string          `json:"image_url"`
}

// CreateProductHandler handles POST /api/products (admin only).
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Validation failed: %v", err))
			return
		}
		if req.Price.LessThanOrEqual(decimal.Zero) {
			apperrors.Respond(c, apperrors.BadRequest("Price must be greater than 0."))
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		}
		if err := db.Create(&product).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Product created successfully.",
			"data":    gin.H{"product": product},
		})
	}
}
