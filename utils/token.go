package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/marketplace/models"
)

// GenerateToken signs an HS256 access token for user.
func GenerateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":           user.ID,
		"email":        user.Email,
		"account_type": string(user.AccountType),
		"is_admin":     user.IsAdminAccount(),
		"exp":          time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
