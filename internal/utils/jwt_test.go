package utils

import (
	"testing"
	"time"

	"ghariyaal_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateJWT_ClaimsAndExpiry(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "customer@ghariyaal.com",
		Role:  models.RoleCustomer,
	}

	tokenString, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), claims["user_id"])
	assert.Equal(t, "customer@ghariyaal.com", claims["email"])
	assert.Equal(t, models.RoleCustomer, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWT_ExpiryOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_DAYS", "7")

	tokenString, err := GenerateJWT(models.User{ID: primitive.NewObjectID(), Email: "a@b.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	exp, err := parsed.Claims.(jwt.MapClaims).GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWT_RejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateJWT(models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	})
	assert.Error(t, err)
}
