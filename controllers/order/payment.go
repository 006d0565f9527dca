package orderControllers

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/events"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

// paymentRand is swappable so tests can force both outcomes.
var paymentRand = rand.Float64

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit_card debit_card mobile_banking cash_on_delivery paypal bank_transfer"`
}

// Receipt is returned alongside the order on successful payment.
type Receipt struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
	Status string          `json:"status"`
}

// SimulatePayment plays the part of a payment gateway with a fixed 90%
// success rate. A decline mutates nothing, so the order stays payable on
// retry. Success records method and timestamp, and confirms a pending order.
func SimulatePayment(db *gorm.DB, actor *models.User, orderID uint, method string) (*models.Order, *Receipt, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("Order not found.")
		}
		return nil, nil, err
	}

	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, nil, apperrors.Forbidden("Access denied.")
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, nil, apperrors.BadRequest("Cannot pay for a cancelled order.")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, nil, apperrors.BadRequest("Order is already paid.")
	}

	if paymentRand() <= 0.1 {
		return nil, nil, apperrors.PaymentRequired(
			"Payment failed. Please try again or use a different payment method.")
	}

	paidAt := time.Now()
	updates := map[string]any{
		"payment_status": models.PaymentStatusPaid,
		"payment_method": method,
		"paid_at":        paidAt,
	}
	// Payment capture implicitly confirms a pending order; later statuses
	// are left alone.
	if order.Status == models.OrderStatusPending {
		updates["status"] = models.OrderStatusConfirmed
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, nil, err
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentMethod = method
	order.PaidAt = &paidAt
	if s, ok := updates["status"]; ok {
		order.Status = s.(models.OrderStatus)
	}

	receipt := &Receipt{
		Method: method,
		Amount: order.TotalAmount,
		PaidAt: paidAt,
		Status: "completed",
	}
	return &order, receipt, nil
}

// PayOrderHandler handles POST /api/orders/:id/pay.
func PayOrderHandler(db *gorm.DB, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseOrderID(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest(
				"Invalid payment method. Must be one of: credit_card, debit_card, mobile_banking, cash_on_delivery, paypal, bank_transfer"))
			return
		}

		actor := middleware.CurrentUser(c)
		order, receipt, err := SimulatePayment(db, actor, id, req.PaymentMethod)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		pub.Publish(events.OrderEvent{
			Type:        events.OrderPaid,
			OrderID:     order.ID,
			OrderRef:    order.OrderRef,
			UserID:      order.UserID,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
		})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment processed successfully.",
			"data":    gin.H{"order": order, "payment": receipt},
		})
	}
}
