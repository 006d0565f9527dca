package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func stubPaymentRand(t *testing.T, v float64) {
	t.Helper()
	orig := paymentRand
	paymentRand = func() float64 { return v }
	t.Cleanup(func() { paymentRand = orig })
}

func TestSimulatePaymentConfirmsPendingOrder(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 2)

	stubPaymentRand(t, 0.9)
	paid, receipt, err := SimulatePayment(db, user, order.ID, "credit_card")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, paid.Status)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, "credit_card", paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)

	assert.Equal(t, "credit_card", receipt.Method)
	assert.Equal(t, "completed", receipt.Status)
	assert.True(t, receipt.Amount.Equal(paid.TotalAmount))
}

func TestSimulatePaymentDeclineLeavesOrderPayable(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 1)

	stubPaymentRand(t, 0.05)
	_, _, err := SimulatePayment(db, user, order.ID, "paypal")
	appErr := requireAppError(t, err, 402)
	assert.Contains(t, appErr.Message, "Payment failed")

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, reloaded.PaymentStatus)
	assert.Nil(t, reloaded.PaidAt)

	// Retry succeeds.
	stubPaymentRand(t, 0.9)
	paid, _, err := SimulatePayment(db, user, order.ID, "paypal")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
}

func TestSimulatePaymentIsNotRepeatable(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 1)

	stubPaymentRand(t, 0.9)
	first, _, err := SimulatePayment(db, user, order.ID, "credit_card")
	require.NoError(t, err)
	require.NotNil(t, first.PaidAt)

	_, _, err = SimulatePayment(db, user, order.ID, "debit_card")
	appErr := requireAppError(t, err, 400)
	assert.Contains(t, appErr.Message, "already paid")

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.NotNil(t, reloaded.PaidAt)
	assert.True(t, first.PaidAt.Equal(*reloaded.PaidAt))
	assert.Equal(t, "credit_card", reloaded.PaymentMethod)
}

func TestSimulatePaymentCancelledOrder(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, user, models.OrderStatusCancelled)

	stubPaymentRand(t, 0.9)
	_, _, err := SimulatePayment(db, user, order.ID, "credit_card")
	appErr := requireAppError(t, err, 400)
	assert.Contains(t, appErr.Message, "cancelled")
}

func TestSimulatePaymentShippedOrderKeepsItsStatus(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	order := createOrder(t, db, user, models.OrderStatusShipped)

	stubPaymentRand(t, 0.9)
	paid, _, err := SimulatePayment(db, user, order.ID, "cash_on_delivery")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, paid.Status)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
}

func TestSimulatePaymentOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createUser(t, db, models.RoleCustomer)
	other := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	order := createOrder(t, db, owner, models.OrderStatusPending)

	stubPaymentRand(t, 0.9)
	_, _, err := SimulatePayment(db, other, order.ID, "credit_card")
	requireAppError(t, err, 403)

	// Admins can process any order's payment.
	paid, _, err := SimulatePayment(db, admin, order.ID, "credit_card")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
}

func TestSimulatePaymentNotFound(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)

	stubPaymentRand(t, 0.9)
	_, _, err := SimulatePayment(db, user, 8888, "credit_card")
	requireAppError(t, err, 404)
}
