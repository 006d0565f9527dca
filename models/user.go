package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:VARCHAR(20);default:'customer';not null" json:"role"`

	// Cancellation tracking used to throttle order cancellations. The date is
	// kept as YYYY-MM-DD so the window follows the calendar day, not a
	// rolling 24 hours; rollover is detected lazily on the next cancellation.
	CancellationCount    int    `gorm:"default:0" json:"cancellation_count"`
	LastCancellationDate string `gorm:"type:VARCHAR(10)" json:"last_cancellation_date,omitempty"`

	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword stores a bcrypt hash of plain on the user.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// ComparePassword reports whether candidate matches the stored hash.
func (u *User) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
