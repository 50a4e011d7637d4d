package main

import (
	"context"
	"log"
	"os"
	"time"

	"ghariyaal_back_end/internal/config"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Remplit la base de démonstration : un admin, un client, quatre montres
// et une commande en attente. Vide les collections avant insertion.
func main() {
	config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}
	defer client.Disconnect(ctx)

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "ghariyaal"
	}
	db := client.Database(dbName)

	for _, name := range []string{"users", "products", "carts", "orders"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("❌ Erreur vidage collection %s: %v", name, err)
		}
	}

	now := time.Now()

	adminPassword, err := utils.HashPassword("AdminPass123")
	if err != nil {
		log.Fatal("❌ Erreur hash mot de passe:", err)
	}
	// le compte client simule un compte importé de l'ancienne base : hash bcrypt,
	// vérifié via le fallback de VerifyPassword
	customerPassword, err := bcrypt.GenerateFromPassword([]byte("CustomerPass123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("❌ Erreur hash mot de passe:", err)
	}

	admin := models.User{
		ID: primitive.NewObjectID(), Name: "Admin User", Email: "admin@ghariyaal.com",
		Password: adminPassword, Role: models.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	}
	customer := models.User{
		ID: primitive.NewObjectID(), Name: "Customer User", Email: "customer@ghariyaal.com",
		Password: string(customerPassword), Role: models.RoleCustomer, CreatedAt: now, UpdatedAt: now,
	}

	if _, err := db.Collection("users").InsertMany(ctx, []interface{}{admin, customer}); err != nil {
		log.Fatal("❌ Erreur insertion utilisateurs:", err)
	}

	products := []models.Product{
		{ID: primitive.NewObjectID(), Name: "Classic Men Watch", Description: "Elegant classic watch for men with leather strap.", Price: 120, Category: models.CategoryMen, ImageURL: "https://example.com/men1.jpg", Stock: 10, CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Sporty Men Watch", Description: "Sporty and durable watch for men.", Price: 150, Category: models.CategoryMen, ImageURL: "https://example.com/men2.jpg", Stock: 8, CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Elegant Women Watch", Description: "Elegant watch for women with gold finish.", Price: 130, Category: models.CategoryWomen, ImageURL: "https://example.com/women1.jpg", Stock: 12, CreatedAt: now, UpdatedAt: now},
		{ID: primitive.NewObjectID(), Name: "Casual Women Watch", Description: "Casual and stylish watch for women.", Price: 90, Category: models.CategoryWomen, ImageURL: "https://example.com/women2.jpg", Stock: 15, CreatedAt: now, UpdatedAt: now},
	}

	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = p
	}
	if _, err := db.Collection("products").InsertMany(ctx, docs); err != nil {
		log.Fatal("❌ Erreur insertion produits:", err)
	}

	order := models.Order{
		ID:     primitive.NewObjectID(),
		UserID: customer.ID,
		Items: []models.OrderItem{
			{ProductID: products[0].ID, Name: products[0].Name, Price: products[0].Price, Quantity: 1},
			{ProductID: products[2].ID, Name: products[2].Name, Price: products[2].Price, Quantity: 2},
		},
		TotalPrice: products[0].Price*1 + products[2].Price*2,
		Address: models.Address{
			Street: "123 Main St", City: "Karachi", State: "Sindh",
			ZipCode: "75500", Country: "Pakistan",
		},
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentCashOnDelivery,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := db.Collection("orders").InsertOne(ctx, order); err != nil {
		log.Fatal("❌ Erreur insertion commande:", err)
	}

	log.Println("✅ Données de démonstration insérées")
}
