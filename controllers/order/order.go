package orderControllers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"omitempty,min=5"`
}

// generateOrderRef produces a scannable reference like 20250908130500-<uuid>.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// lockForUpdate takes the row-level exclusive lock that serializes concurrent
// checkouts and cancellations touching the same product. sqlite (used in
// tests) has no FOR UPDATE; its single-writer transactions already serialize.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isLockTimeout reports whether err is the store giving up on a row lock
// (Postgres SQLSTATE 55P03). Such failures are transient; callers may retry.
func isLockTimeout(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "55P03") || strings.Contains(msg, "lock timeout")
}

// productLabel names a product in error messages, falling back to its id when
// the row has gone away.
func productLabel(item models.CartItem) string {
	if item.Product.Name != "" {
		return item.Product.Name
	}
	return fmt.Sprintf("#%d", item.ProductID)
}

// PlaceOrder converts the user's cart into an order inside one transaction:
// each product row is locked, stock is validated and deducted, the current
// price is snapshotted onto the order items, and the cart is cleared. Any
// failure rolls the whole thing back; no partial order is ever visible.
func PlaceOrder(db *gorm.DB, userID uint, shippingAddress string) (*models.Order, error) {
	var orderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.BadRequest("Cart is empty. Add items before placing an order.")
			}
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.BadRequest("Cart is empty. Add items before placing an order.")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.BadRequest("Product %q is no longer available.", productLabel(item))
				}
				if isLockTimeout(err) {
					return apperrors.ServiceUnavailable("Could not reserve stock in time. Please retry.")
				}
				return err
			}

			if product.Stock < item.Quantity {
				return apperrors.BadRequest(
					"Insufficient stock for %q. Requested: %d, Available: %d",
					product.Name, item.Quantity, product.Stock,
				)
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		order := models.Order{
			OrderRef: generateOrderRef(),
			UserID:   userID,
			Items:    orderItems,
			// Accumulated exactly, rounded half-up once at the end so
			// per-line rounding cannot drift the total.
			TotalAmount:     total.Round(2),
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Deduct stock under the locks taken above; no new race window.
		for _, item := range orderItems {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadOrder(db, orderID)
}

// loadOrder fetches an order with its items and product summaries.
func loadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "price", "image_url")
		}).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found.")
		}
		return nil, err
	}
	return &order, nil
}

func parseOrderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("Invalid order id.")
	}
	return uint(id), nil
}

// PlaceOrderHandler handles POST /api/orders.
func PlaceOrderHandler(db *gorm.DB, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		// The body is optional; only reject when it is present and invalid.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apperrors.Respond(c, apperrors.BadRequest("Shipping address must be at least 5 characters."))
			return
		}

		user := middleware.CurrentUser(c)
		order, err := PlaceOrder(db, user.ID, strings.TrimSpace(req.ShippingAddress))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		pub.Publish(events.OrderEvent{
			Type:        events.OrderPlaced,
			OrderID:     order.ID,
			OrderRef:    order.OrderRef,
			UserID:      order.UserID,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
		})

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order placed successfully.",
			"data":    gin.H{"order": order},
		})
	}
}

// ListOrdersHandler handles GET /api/orders. Customers see only their own
// orders; admins see everything. Supports status filtering and pagination.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		query := db.Model(&models.Order{})
		if !user.IsAdmin() {
			query = query.Where("user_id = ?", user.ID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var orders []models.Order
		err := query.
			Preload("Items").
			Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "price", "image_url")
			}).
			Preload("User", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "email")
			}).
			Order("created_at DESC").
			Limit(limit).Offset(offset).
			Find(&orders).Error
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"orders": orders,
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

// GetOrderHandler handles GET /api/orders/:id.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		order, err := loadOrder(db, id)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		user := middleware.CurrentUser(c)
		if !user.IsAdmin() && order.UserID != user.ID {
			apperrors.Respond(c, apperrors.Forbidden("Access denied. You can only view your own orders."))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"order": order}})
	}
}
