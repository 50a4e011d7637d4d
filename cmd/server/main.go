package main

import (
	"log"
	"os"

	"ghariyaal_back_end/internal/config"
	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to Ghariyaal API"})
	})

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Ghariyaal lancé sur le port", port)
	r.Run(":" + port)
}
