package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func productSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "price", "stock", "image_url")
}

// getOrCreateCart loads the user's cart, creating it if registration somehow
// didn't (safety fallback).
func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = db.Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartHandler handles GET /api/cart.
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		cart, err := getOrCreateCart(db, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := db.Preload("Items.Product", productSummary).Preload("Items").
			First(cart, cart.ID).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"cart":       cart,
				"cart_total": total.Round(2),
				"item_count": len(cart.Items),
			},
		})
	}
}

// AddItemHandler handles POST /api/cart/items. Adding a product already in
// the cart increments its quantity, re-checking the combined amount against
// stock.
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Validation failed: %v", err))
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		user := middleware.CurrentUser(c)

		var product models.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("Product not found."))
				return
			}
			apperrors.Respond(c, err)
			return
		}
		if product.Stock < req.Quantity {
			apperrors.Respond(c, apperrors.BadRequest(
				"Insufficient stock. Only %d items available.", product.Stock))
			return
		}

		cart, err := getOrCreateCart(db, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: req.Quantity}
			if err := db.Create(&item).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
		case err != nil:
			apperrors.Respond(c, err)
			return
		default:
			newQuantity := item.Quantity + req.Quantity
			if newQuantity > product.Stock {
				apperrors.Respond(c, apperrors.BadRequest(
					"Cannot add more. Cart already has %d and only %d available.",
					item.Quantity, product.Stock))
				return
			}
			if err := db.Model(&item).Update("quantity", newQuantity).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
		}

		if err := db.Preload("Product", productSummary).First(&item, item.ID).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Item added to cart.",
			"data":    gin.H{"item": item},
		})
	}
}

// findCartItem loads an item by id and verifies it belongs to the user's cart.
func findCartItem(db *gorm.DB, c *gin.Context, userID uint) (*models.CartItem, error) {
	itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid cart item id.")
	}

	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Cart item not found.")
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItemHandler handles PUT /api/cart/items/:itemID.
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Quantity must be at least 1."))
			return
		}

		user := middleware.CurrentUser(c)
		item, err := findCartItem(db, c, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("Product not found."))
			return
		}
		if product.Stock < req.Quantity {
			apperrors.Respond(c, apperrors.BadRequest(
				"Insufficient stock. Only %d items available.", product.Stock))
			return
		}

		if err := db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		if err := db.Preload("Product", productSummary).First(item, item.ID).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cart item updated.",
			"data":    gin.H{"item": item},
		})
	}
}

// RemoveItemHandler handles DELETE /api/cart/items/:itemID.
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		item, err := findCartItem(db, c, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		if err := db.Delete(item).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart."})
	}
}

// ClearCartHandler handles DELETE /api/cart.
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		cart, err := getOrCreateCart(db, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared."})
	}
}
