package routes

import (
	"ghariyaal_back_end/internal/handlers"
	"ghariyaal_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// ---------- Auth ----------
	auth := api.Group("/auth")
	{
		limited := auth.Group("")
		limited.Use(middleware.AuthRateLimit())
		limited.POST("/register", handlers.Register)
		limited.POST("/login", handlers.Login)
		limited.POST("/forgot-password", handlers.ForgotPassword)

		auth.POST("/reset-password", handlers.ResetPassword)
		auth.GET("/me", middleware.AuthRequired(), handlers.GetMe)
		auth.POST("/change-password", middleware.AuthRequired(), handlers.ChangePassword)
	}

	// ---------- Catalogue ----------
	products := api.Group("/products")
	{
		products.GET("", handlers.GetProducts)
		products.GET("/search", handlers.SearchProducts)
		products.GET("/:id", handlers.GetProduct)

		admin := products.Group("/admin/products")
		admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
		admin.POST("", handlers.CreateProduct)
		admin.PUT("/:id", handlers.UpdateProduct)
		admin.DELETE("/:id", handlers.DeleteProduct)
		admin.POST("/:id/image", handlers.UploadProductImage)
	}

	// ---------- Panier ----------
	cart := api.Group("/cart")
	cart.Use(middleware.AuthRequired())
	{
		cart.GET("", handlers.GetCart)
		cart.POST("", handlers.AddToCart)
		cart.PUT("", handlers.UpdateCartItem)
		cart.DELETE("", handlers.ClearCart)
		cart.DELETE("/items/:productId", handlers.RemoveFromCart)
		cart.GET("/ws", handlers.CartWebSocket)
	}

	// ---------- Commandes ----------
	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired())
	{
		orders.POST("", handlers.CreateOrder)
		orders.GET("/me", handlers.GetMyOrders)
		orders.GET("/admin/orders", middleware.RequireAdmin, handlers.GetAllOrders)
		orders.PATCH("/admin/orders/:id/status", middleware.RequireAdmin, handlers.UpdateOrderStatus)
		// la vérification propriétaire-ou-admin se fait dans le handler
		orders.GET("/:id", handlers.GetOrder)
	}

	// ---------- Utilisateurs (admin) ----------
	users := api.Group("/users")
	users.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		users.GET("", handlers.GetAllUsers)
		users.POST("/create-admin", handlers.CreateAdmin)
		users.GET("/:id", handlers.GetUserByID)
		users.PUT("/:id/role", handlers.UpdateUserRole)
		users.DELETE("/:id", handlers.DeleteUser)
	}
}
