package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Enveloppe de réponse uniforme : { success, message, data?, meta?|pagination? }
// Toutes les réponses (succès comme erreurs) passent par ici.

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, message string, meta gin.H) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
		"meta":    meta,
	})
}

func SuccessWithPagination(c *gin.Context, data interface{}, p Pagination, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": p,
	})
}

func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message)
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// ServerError masque le détail de l'erreur interne au client
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal Server Error")
}

// TotalPages calcule le nombre de pages (arrondi supérieur)
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}
