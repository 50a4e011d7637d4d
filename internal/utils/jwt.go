package utils

import (
	"os"
	"strconv"
	"time"

	"ghariyaal_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultExpiryDays = 30

// GenerateJWT signe un token HS256 avec user_id, email et role.
// Expiration : 30 jours, surchargeable via JWT_EXPIRES_DAYS.
func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	days := defaultExpiryDays
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Duration(days) * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
