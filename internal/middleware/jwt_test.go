package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("email"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	r := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing authentication token")
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	r := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Authorization header")
}

func TestAuthRequired_BadSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token := signToken(t, "wrong-secret", jwt.MapClaims{
		"user_id": "68b1c2d3e4f5a6b7c8d9e0f1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "68b1c2d3e4f5a6b7c8d9e0f1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthRequired_TokenWithoutExp(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "68b1c2d3e4f5a6b7c8d9e0f1",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthTestRouter()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "68b1c2d3e4f5a6b7c8d9e0f1",
		"email":   "customer@ghariyaal.com",
		"role":    "customer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "68b1c2d3e4f5a6b7c8d9e0f1")
	assert.Contains(t, w.Body.String(), "customer@ghariyaal.com")
}
