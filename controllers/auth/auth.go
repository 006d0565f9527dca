package authControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Mahir-Faysal/Mini-E-Commerce-API/apperrors"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/middleware"
	"github.com/Mahir-Faysal/Mini-E-Commerce-API/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin customer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func generateToken(user *models.User, secret []byte, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// RegisterHandler handles POST /api/auth/register. The user and their cart
// are created in one transaction; every user has exactly one cart from the
// moment the account exists.
func RegisterHandler(db *gorm.DB, secret []byte, expiry time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Validation failed: %v", err))
			return
		}

		role := models.RoleCustomer
		if req.Role == string(models.RoleAdmin) {
			role = models.RoleAdmin
		}

		user := models.User{Name: req.Name, Email: req.Email, Role: role}
		if err := user.SetPassword(req.Password); err != nil {
			apperrors.Respond(c, err)
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperrors.Conflict("An account with this email already exists.")
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Cart{UserID: user.ID}).Error
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		token, err := generateToken(&user, secret, expiry)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Registration successful.",
			"data":    gin.H{"user": user, "token": token},
		})
	}
}

// LoginHandler handles POST /api/auth/login.
func LoginHandler(db *gorm.DB, secret []byte, expiry time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.BadRequest("Validation failed: %v", err))
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Same message for unknown email and bad password.
			apperrors.Respond(c, apperrors.Unauthorized("Invalid email or password."))
			return
		}
		if !user.ComparePassword(req.Password) {
			apperrors.Respond(c, apperrors.Unauthorized("Invalid email or password."))
			return
		}

		token, err := generateToken(&user, secret, expiry)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful.",
			"data":    gin.H{"user": user, "token": token},
		})
	}
}

// ProfileHandler handles GET /api/auth/profile.
func ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": user},
		})
	}
}
