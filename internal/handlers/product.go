package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/services"
	"ghariyaal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productListCacheKey = "products:all"
	productListCacheTTL = 10 * time.Minute

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePagination lit page/limit (1-indexés), avec bornes de sécurité
func parsePagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// parseSortParam convertit "price,-created_at" en document de tri Mongo ;
// le préfixe "-" inverse l'ordre. Vide → tri par défaut : plus récent d'abord.
func parseSortParam(sort string) bson.D {
	if sort == "" {
		return bson.D{{Key: "created_at", Value: -1}}
	}

	var sortDoc bson.D
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		sortDoc = append(sortDoc, bson.E{Key: field, Value: order})
	}
	if len(sortDoc) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return sortDoc
}

// validateProductInput applique les règles du schéma avant toute écriture
func validateProductInput(p models.Product) string {
	if strings.TrimSpace(p.Name) == "" {
		return "Product name is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		return "Product description is required"
	}
	if p.Price < 0 {
		return "Price cannot be negative"
	}
	if !models.IsValidCategory(p.Category) {
		return "Category must be either Men or Women"
	}
	if strings.TrimSpace(p.ImageURL) == "" {
		return "Image URL is required"
	}
	if p.Stock < 0 {
		return "Stock cannot be negative"
	}
	return ""
}

// invalidateProductListCache est appelé sur toute écriture produit,
// y compris les mutations de stock faites par les commandes
func invalidateProductListCache(ctx context.Context) {
	database.Redis.Del(ctx, productListCacheKey)
}

// ================== CATALOGUE ==================

// GET /api/products?category=&search=&sort=&page=&limit=
func GetProducts(c *gin.Context) {
	page, limit := parsePagination(c.Query("page"), c.Query("limit"))
	sortDoc := parseSortParam(c.Query("sort"))

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if search := c.Query("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cache Redis uniquement pour le listing par défaut (aucun paramètre)
	cacheable := len(filter) == 0 && c.Query("sort") == "" && page == 1 && c.Query("limit") == ""
	if cacheable {
		if val, err := database.Redis.Get(ctx, productListCacheKey).Result(); err == nil && val != "" {
			var cached gin.H
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	opts := options.Find().
		SetSort(sortDoc).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := database.Products().Find(ctx, filter, opts)
	if err != nil {
		log.Println("❌ Erreur MongoDB Find produits:", err)
		utils.ServerError(c)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.ServerError(c)
		return
	}

	total, err := database.Products().CountDocuments(ctx, filter)
	if err != nil {
		utils.ServerError(c)
		return
	}

	body := gin.H{
		"success": true,
		"message": "Products retrieved successfully",
		"data":    products,
		"pagination": utils.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: utils.TotalPages(total, limit),
		},
	}

	if cacheable {
		if raw, err := json.Marshal(body); err == nil {
			database.Redis.Set(ctx, productListCacheKey, raw, productListCacheTTL)
		}
	}

	c.JSON(http.StatusOK, body)
}

// GET /api/products/search?q=  — recherche plein texte via Elasticsearch
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "Search query is required")
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		log.Println("⚠️ Recherche Elastic indisponible:", err)
		utils.ServerError(c)
		return
	}

	utils.Success(c, http.StatusOK, results, "Products retrieved successfully")
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// POST /api/products/admin/products
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if msg := validateProductInput(p); msg != "" {
		utils.BadRequest(c, msg)
		return
	}

	p.ID = primitive.NewObjectID()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.Products().InsertOne(ctx, p); err != nil {
		log.Println("❌ Erreur création produit:", err)
		utils.ServerError(c)
		return
	}

	invalidateProductListCache(ctx)

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	utils.Created(c, p, "Product created successfully")
}

// PUT /api/products/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if msg := validateProductInput(p); msg != "" {
		utils.BadRequest(c, msg)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"imageUrl":    p.ImageURL,
		"stock":       p.Stock,
		"updated_at":  time.Now(),
	}}

	var updated models.Product
	err = database.Products().FindOneAndUpdate(ctx, bson.M{"_id": productID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.NotFound(c, "Product not found")
			return
		}
		log.Println("❌ Erreur mise à jour produit:", err)
		utils.ServerError(c)
		return
	}

	invalidateProductListCache(ctx)
	go services.IndexProduct(updated)

	utils.Success(c, http.StatusOK, updated, "Product updated successfully")
}

// DELETE /api/products/admin/products/:id
func DeleteProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := database.Products().DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		utils.ServerError(c)
		return
	}
	if res.DeletedCount == 0 {
		utils.NotFound(c, "Product not found")
		return
	}

	invalidateProductListCache(ctx)
	go services.RemoveProduct(productID.Hex())

	utils.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// POST /api/products/admin/products/:id/image — upload multipart vers MinIO
func UploadProductImage(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "Image file is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	url, err := services.UploadProductImage(productID.Hex(), file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		utils.ServerError(c)
		return
	}

	_, err = database.Products().UpdateByID(ctx, productID, bson.M{
		"$set": bson.M{"imageUrl": url, "updated_at": time.Now()},
	})
	if err != nil {
		utils.ServerError(c)
		return
	}

	product.ImageURL = url
	invalidateProductListCache(ctx)
	go services.IndexProduct(product)

	utils.Success(c, http.StatusOK, gin.H{"imageUrl": url}, "Product image uploaded successfully")
}
