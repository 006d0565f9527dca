package productControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

// sortColumns whitelists what callers may order by.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

// ListProductsHandler handles GET /api/products with pagination, search,
// price filters and sorting.
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		query := db.Model(&models.Product{})

		if search := c.Query("search"); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		if minPrice := c.Query("min_price"); minPrice != "" {
			if d, err := decimal.NewFromString(minPrice); err == nil {
				query = query.Where("price >= ?", d)
			}
		}
		if maxPrice := c.Query("max_price"); maxPrice != "" {
			if d, err := decimal.NewFromString(maxPrice); err == nil {
				query = query.Where("price <= ?", d)
			}
		}

		sortBy, ok := sortColumns[c.DefaultQuery("sort_by", "created_at")]
		if !ok {
			sortBy = "created_at"
		}
		sortOrder := "DESC"
		if strings.EqualFold(c.DefaultQuery("sort_order", "desc"), "asc") {
			sortOrder = "ASC"
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var products []models.Product
		if err := query.Order(sortBy + " " + sortOrder).
			Limit(limit).Offset(offset).
			Find(&products).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"products": products,
				"pagination": gin.H{
					"total":       total,
					"page":        page,
					"limit":       limit,
					"total_pages": int(math.Ceil(float64(total) / float64(limit))),
				},
			},
		})
	}
}

// GetProductHandler handles GET /api/products/:id.
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Invalid product id."))
			return
		}

		var product models.Product
		if err := db.First(&product, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("Product not found."))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"product": product}})
	}
}

// findProduct is shared by the admin mutation handlers.
func findProduct(db *gorm.DB, c *gin.Context) (*models.Product, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid product id.")
	}
	var product models.Product
	if err := db.First(&product, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product not found.")
		}
		return nil, err
	}
	return &product, nil
}
