// Package seed creates the demo users and catalog. Safe to run repeatedly.
package seed

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var products = []models.Product{
	{Name: "Wireless Mouse", Description: "Ergonomic 2.4GHz wireless mouse", Price: price("24.99"), Stock: 120, ImageURL: "https://example.com/img/mouse.jpg"},
	{Name: "Mechanical Keyboard", Description: "Tenkeyless keyboard with brown switches", Price: price("89.50"), Stock: 45, ImageURL: "https://example.com/img/keyboard.jpg"},
	{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI and card reader", Price: price("39.00"), Stock: 80, ImageURL: "https://example.com/img/hub.jpg"},
	{Name: "27\" Monitor", Description: "1440p IPS display, 75Hz", Price: price("229.99"), Stock: 15, ImageURL: "https://example.com/img/monitor.jpg"},
	{Name: "Laptop Stand", Description: "Adjustable aluminium stand", Price: price("32.75"), Stock: 60, ImageURL: "https://example.com/img/stand.jpg"},
	{Name: "Noise-Cancelling Headphones", Description: "Over-ear, 30h battery", Price: price("149.00"), Stock: 25, ImageURL: "https://example.com/img/headphones.jpg"},
}

// Run inserts the demo admin, customer and products if they are not there yet.
func Run(db *gorm.DB) error {
	users := []struct {
		name     string
		email    string
		password string
		role     models.Role
	}{
		{"Admin User", "admin@ecommerce.com", "admin123", models.RoleAdmin},
		{"Demo Customer", "customer@ecommerce.com", "customer123", models.RoleCustomer},
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.email).First(&existing).Error
		if err == nil {
			log.Printf("seed: user %s already exists", u.email)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		user := models.User{Name: u.name, Email: u.email, Role: u.role}
		if err := user.SetPassword(u.password); err != nil {
			return err
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Cart{UserID: user.ID}).Error
		})
		if err != nil {
			return err
		}
		log.Printf("seed: created %s user %s", u.role, u.email)
	}

	for _, p := range products {
		product := p
		if err := db.Where("name = ?", product.Name).FirstOrCreate(&product).Error; err != nil {
			return err
		}
	}
	log.Printf("seed: %d products ensured", len(products))

	return nil
}
