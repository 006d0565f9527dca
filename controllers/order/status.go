package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// UpdateOrderStatus moves an order through the lifecycle table. Illegal jumps
// are rejected with the list of statuses the order can actually move to.
func UpdateOrderStatus(db *gorm.DB, orderID uint, target models.OrderStatus) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Order not found.")
			}
			return err
		}

		if !order.Status.CanTransitionTo(target) {
			allowed := order.Status.AllowedNext()
			names := make([]string, len(allowed))
			for i, s := range allowed {
				names[i] = string(s)
			}
			list := strings.Join(names, ", ")
			if list == "" {
				list = "none"
			}
			return apperrors.BadRequest(
				"Invalid status transition from %q to %q. Allowed: %s",
				order.Status, target, list)
		}

		if err := tx.Model(&order).Update("status", target).Error; err != nil {
			return err
		}
		order.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatusHandler handles PATCH /api/orders/:id/status (admin only).
func UpdateOrderStatusHandler(db *gorm.DB, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest(
				"Invalid status. Must be one of: pending, confirmed, shipped, delivered, cancelled"))
			return
		}
		target, _ := models.ParseOrderStatus(req.Status)

		order, err := UpdateOrderStatus(db, id, target)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		pub.Publish(events.OrderEvent{
			Type:        events.OrderStatusChanged,
			OrderID:     order.ID,
			OrderRef:    order.OrderRef,
			UserID:      order.UserID,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
		})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status updated to " + req.Status + ".",
			"data":    gin.H{"order": order},
		})
	}
}
