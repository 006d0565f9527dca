package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
)

// UpdateProductRequest uses pointers so absent fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url"`
}

// UpdateProductHandler handles PUT /api/products/:id (admin only).
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := findProduct(db, c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Validation failed: %v", err))
			return
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			if req.Price.LessThanOrEqual(decimal.Zero) {
				apperrors.Respond(c, apperrors.BadRequest("Price must be greater than 0."))
				return
			}
			product.Price = *req.Price
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}

		if err := db.Save(product).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product updated successfully.",
			"data":    gin.H{"product": product},
		})
	}
}
