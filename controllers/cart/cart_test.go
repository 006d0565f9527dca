package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
	))
	return db
}

// newCartRouter mounts the cart handlers behind a stub that injects user as
// the authenticated actor.
func newCartRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserKey, user)
		c.Next()
	})
	r.GET("/cart", GetCartHandler(db))
	r.POST("/cart/items", AddItemHandler(db))
	r.PUT("/cart/items/:itemID", UpdateItemHandler(db))
	r.DELETE("/cart/items/:itemID", RemoveItemHandler(db))
	r.DELETE("/cart", ClearCartHandler(db))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setupCartUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Shopper", Email: "shopper@example.com", Role: models.RoleCustomer}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func TestAddItemAndGetCart(t *testing.T) {
	db := openTestDB(t)
	user := setupCartUser(t, db)
	product := models.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	r := newCartRouter(db, user)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			CartTotal decimal.Decimal `json:"cart_total"`
			ItemCount int             `json:"item_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.ItemCount)
	assert.True(t, resp.Data.CartTotal.Equal(decimal.RequireFromString("20.00")),
		"cart total = %s", resp.Data.CartTotal)
}

func TestAddItemMergesDuplicates(t *testing.T) {
	db := openTestDB(t)
	user := setupCartUser(t, db)
	product := models.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	r := newCartRouter(db, user)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	// A third add would push the quantity past stock.
	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot add more")
}

func TestAddItemValidation(t *testing.T) {
	db := openTestDB(t)
	user := setupCartUser(t, db)
	product := models.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 1}
	require.NoError(t, db.Create(&product).Error)

	r := newCartRouter(db, user)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id":999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}

func TestUpdateAndRemoveItem(t *testing.T) {
	db := openTestDB(t)
	user := setupCartUser(t, db)
	product := models.Product{Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	r := newCartRouter(db, user)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":1}`)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	w := doJSON(r, http.MethodPut, "/cart/items/1", `{"quantity":4}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, 4, item.Quantity)

	w = doJSON(r, http.MethodDelete, "/cart/items/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestClearCart(t *testing.T) {
	db := openTestDB(t)
	user := setupCartUser(t, db)
	for _, name := range []string{"A", "B"} {
		product := models.Product{Name: name, Price: decimal.RequireFromString("5.00"), Stock: 10}
		require.NoError(t, db.Create(&product).Error)
	}

	r := newCartRouter(db, user)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":1}`)
	doJSON(r, http.MethodPost, "/cart/items", `{"product_id":2,"quantity":1}`)

	w := doJSON(r, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
