package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRoleTestRouter(role string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
	}, handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"customer refused", "customer", http.StatusForbidden},
		{"no role refused", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRoleTestRouter(tt.role, RequireAdmin)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Insufficient permissions")
			}
		})
	}
}

func TestRequireRoles_MultipleRoles(t *testing.T) {
	t.Parallel()

	r := newRoleTestRouter("customer", RequireRoles("admin", "customer"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
