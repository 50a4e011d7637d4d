package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ghariyaal_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// Fenêtre générale /api : 100 requêtes / 15 minutes par IP
	APIMaxRequests = 100
	APIWindow      = 15 * time.Minute

	// Fenêtre stricte pour les endpoints d'authentification : 5 requêtes / heure par IP
	AuthMaxRequests = 5
	AuthWindow      = 1 * time.Hour
)

// rateLimitKey construit la clé Redis du compteur d'une IP
func rateLimitKey(prefix, ip string) string {
	return prefix + ip
}

// limitExceeded décide du 429 : le compteur courant a atteint la fenêtre
func limitExceeded(current, max int) bool {
	return current >= max
}

// remainingRequests calcule le quota restant exposé dans X-RateLimit-Remaining,
// en comptant la requête en cours
func remainingRequests(max, current int) int {
	remaining := max - current - 1
	if remaining < 0 {
		return 0
	}
	return remaining
}

// APIRateLimit limite le nombre de requêtes par IP sur toute l'API
func APIRateLimit() gin.HandlerFunc {
	return rateLimit("api_requests:", APIMaxRequests, APIWindow,
		"Too many requests from this IP, please try again after 15 minutes")
}

// AuthRateLimit limite les tentatives d'authentification par IP
func AuthRateLimit() gin.HandlerFunc {
	return rateLimit("auth_attempts:", AuthMaxRequests, AuthWindow,
		"Too many login attempts, please try again after an hour")
}

func rateLimit(keyPrefix string, max int, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := rateLimitKey(keyPrefix, c.ClientIP())

		requests, _ := database.Redis.Get(ctx, key).Int()
		if limitExceeded(requests, max) {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     message,
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		// Incr + ExpireNX dans le même pipeline : l'expiration n'est posée que
		// si la clé n'en a pas encore, sans fenêtre de crash entre les deux commandes
		pipe := database.Redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		pipe.Exec(ctx)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remainingRequests(max, requests)))

		c.Next()
	}
}
