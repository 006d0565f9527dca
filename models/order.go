package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // confirmed (payment or admin)
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // terminal
	OrderStatusCancelled OrderStatus = "cancelled" // terminal

	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// AllowedTransitions is the full order lifecycle. The customer cancellation
// path has extra preconditions of its own but never steps outside this table.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// AllowedNext returns the statuses this order may move to, possibly none.
func (s OrderStatus) AllowedNext() []OrderStatus {
	return AllowedTransitions[s]
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range AllowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the order may still be cancelled; shipped and
// delivered orders are past the point of no return.
func (s OrderStatus) IsCancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// ParseOrderStatus maps a request literal onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// PaymentMethods is the fixed set accepted by the payment endpoint.
var PaymentMethods = []string{
	"credit_card",
	"debit_card",
	"mobile_banking",
	"cash_on_delivery",
	"paypal",
	"bank_transfer",
}

func ValidPaymentMethod(m string) bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	OrderRef string      `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID   uint        `gorm:"not null;index" json:"user_id"`
	User     User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// Computed server-side at placement, never trusted from the client.
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending';not null" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'unpaid';not null" json:"payment_status"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	ShippingAddress string        `gorm:"type:text" json:"shipping_address,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem snapshots what was bought and at which price. Rows are immutable
// once written; they only go away when their order does.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"index;not null" json:"order_id"`
	ProductID       uint            `gorm:"not null" json:"product_id"`
	Product         Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
}
