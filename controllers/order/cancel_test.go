package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

const maxPerDay = 3

func placeTestOrder(t *testing.T, db *gorm.DB, user *models.User, product *models.Product, qty int) *models.Order {
	t.Helper()
	addToCart(t, db, user, product, qty)
	order, err := PlaceOrder(db, user.ID, "")
	require.NoError(t, err)
	return order
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 2)
	require.Equal(t, 3, productStock(t, db, product.ID))

	res, err := CancelOrder(db, user, order.ID, maxPerDay)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, res.Order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, res.Order.PaymentStatus)
	assert.Equal(t, 1, res.CancellationsToday)
	assert.Equal(t, maxPerDay, res.MaxPerDay)
	assert.Equal(t, 5, productStock(t, db, product.ID))

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.CancellationCount)
	assert.Equal(t, today(), updated.LastCancellationDate)
}

func TestCancelThenReorderUsesRestoredStock(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 2)

	_, err := CancelOrder(db, user, order.ID, maxPerDay)
	require.NoError(t, err)
	require.Equal(t, 5, productStock(t, db, product.ID))

	again := placeTestOrder(t, db, user, product, 5)
	assert.Equal(t, models.OrderStatusPending, again.Status)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}

func TestCancelPaidOrderFlagsRefund(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 1)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_status", models.PaymentStatusPaid).Error)

	res, err := CancelOrder(db, user, order.ID, maxPerDay)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, res.Order.PaymentStatus)
}

func TestCancelOrderRateLimitBoundary(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 50)

	// One cancellation left today.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"cancellation_count":     maxPerDay - 1,
		"last_cancellation_date": today(),
	}).Error)

	first := placeTestOrder(t, db, user, product, 1)
	res, err := CancelOrder(db, user, first.ID, maxPerDay)
	require.NoError(t, err)
	assert.Equal(t, maxPerDay, res.CancellationsToday)

	second := placeTestOrder(t, db, user, product, 1)
	_, err = CancelOrder(db, user, second.ID, maxPerDay)
	appErr := requireAppError(t, err, 429)
	assert.Contains(t, appErr.Message, "Cancellation limit reached")

	// The blocked attempt changed nothing.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestCancelOrderRateLimitCheckedBeforeOrderLookup(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"cancellation_count":     maxPerDay,
		"last_cancellation_date": today(),
	}).Error)

	// A throttled user gets 429 even for an order that doesn't exist.
	_, err := CancelOrder(db, user, 99999, maxPerDay)
	requireAppError(t, err, 429)
}

func TestCancelOrderCounterResetsOnNewDay(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"cancellation_count":     maxPerDay,
		"last_cancellation_date": "2000-01-01",
	}).Error)

	order := placeTestOrder(t, db, user, product, 1)
	res, err := CancelOrder(db, user, order.ID, maxPerDay)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CancellationsToday)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 1, updated.CancellationCount)
	assert.Equal(t, today(), updated.LastCancellationDate)
}

func TestCancelOrderAdminBypassesRateLimit(t *testing.T) {
	db := openTestDB(t)
	customer := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, customer, product, 1)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Updates(map[string]any{
		"cancellation_count":     maxPerDay,
		"last_cancellation_date": today(),
	}).Error)

	res, err := CancelOrder(db, admin, order.ID, maxPerDay)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, res.Order.Status)
	assert.Equal(t, 0, res.CancellationsToday)

	// Admin counter untouched.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.Equal(t, maxPerDay, reloaded.CancellationCount)
}

func TestCancelOrderOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createUser(t, db, models.RoleCustomer)
	other := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, owner, product, 1)

	_, err := CancelOrder(db, other, order.ID, maxPerDay)
	requireAppError(t, err, 403)

	// Order and stock untouched.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
	assert.Equal(t, 4, productStock(t, db, product.ID))
}

func TestCancelShippedOrderRejected(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)
	product := createProduct(t, db, "Widget", "10.00", 5)
	order := placeTestOrder(t, db, user, product, 1)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusShipped).Error)

	_, err := CancelOrder(db, user, order.ID, maxPerDay)
	appErr := requireAppError(t, err, 400)
	assert.Contains(t, appErr.Message, `"shipped"`)
	assert.Equal(t, 4, productStock(t, db, product.ID))
}

func TestCancelOrderNotFound(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, models.RoleCustomer)

	_, err := CancelOrder(db, user, 12345, maxPerDay)
	requireAppError(t, err, 404)
}
