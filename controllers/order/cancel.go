package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

// CancelResult carries what the cancel endpoint reports back.
type CancelResult struct {
	Order              *models.Order
	CancellationsToday int
	MaxPerDay          int
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// CancelOrder cancels a pending or confirmed order and restores its stock.
// Customers are limited to maxPerDay cancellations per calendar day; the
// limit is checked before the order is even looked up, so a throttled user
// learns nothing about the order. Admins bypass the limit and never touch
// the counter.
func CancelOrder(db *gorm.DB, actor *models.User, orderID uint, maxPerDay int) (*CancelResult, error) {
	res := &CancelResult{MaxPerDay: maxPerDay}

	err := db.Transaction(func(tx *gorm.DB) error {
		isAdmin := actor.IsAdmin()
		now := today()

		var user models.User
		if !isAdmin {
			if err := tx.First(&user, actor.ID).Error; err != nil {
				return err
			}
			if user.LastCancellationDate == now && user.CancellationCount >= maxPerDay {
				return apperrors.TooManyRequests(
					"Cancellation limit reached. You can cancel up to %d orders per day.", maxPerDay)
			}
		}

		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Order not found.")
			}
			return err
		}

		if !isAdmin && order.UserID != actor.ID {
			return apperrors.Forbidden("Access denied.")
		}

		if !order.Status.IsCancellable() {
			return apperrors.BadRequest(
				"Cannot cancel order with status %q. Only pending or confirmed orders can be cancelled.",
				order.Status)
		}

		// Exact inverse of placement's deduction. The UPDATE takes the same
		// row lock placement uses, serializing against concurrent checkouts.
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				if isLockTimeout(err) {
					return apperrors.ServiceUnavailable("Could not restore stock in time. Please retry.")
				}
				return err
			}
		}

		updates := map[string]any{"status": models.OrderStatusCancelled}
		if order.PaymentStatus == models.PaymentStatusPaid {
			// Refund is a status flag only; payment is simulated, there is
			// nothing external to reverse.
			updates["payment_status"] = models.PaymentStatusRefunded
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		if !isAdmin {
			count := 1
			if user.LastCancellationDate == now {
				count = user.CancellationCount + 1
			}
			if err := tx.Model(&user).Updates(map[string]any{
				"cancellation_count":     count,
				"last_cancellation_date": now,
			}).Error; err != nil {
				return err
			}
			res.CancellationsToday = count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	res.Order = order
	return res, nil
}

// CancelOrderHandler handles PUT /api/orders/:id/cancel.
func CancelOrderHandler(db *gorm.DB, pub *events.Publisher, maxPerDay int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		actor := middleware.CurrentUser(c)
		res, err := CancelOrder(db, actor, id, maxPerDay)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		pub.Publish(events.OrderEvent{
			Type:        events.OrderCancelled,
			OrderID:     res.Order.ID,
			OrderRef:    res.Order.OrderRef,
			UserID:      res.Order.UserID,
			Status:      string(res.Order.Status),
			TotalAmount: res.Order.TotalAmount,
		})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order cancelled successfully. Stock has been restored.",
			"data": gin.H{
				"order":                     res.Order,
				"cancellations_today":       res.CancellationsToday,
				"max_cancellations_per_day": res.MaxPerDay,
			},
		})
	}
}
