package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ================== PANIER ==================

// mergeCartItem ajoute quantity au produit s'il est déjà dans le panier,
// sinon ajoute une nouvelle ligne. Retourne la quantité cumulée de la ligne.
func mergeCartItem(items []models.CartItem, productID primitive.ObjectID, quantity int) ([]models.CartItem, int) {
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return items, items[i].Quantity
		}
	}
	return append(items, models.CartItem{ProductID: productID, Quantity: quantity}), quantity
}

// buildCartDetails enrichit les lignes avec les infos produit actuelles et
// calcule le total aux prix du moment (jamais stocké). Les produits supprimés
// du catalogue sont ignorés.
func buildCartDetails(items []models.CartItem, products map[primitive.ObjectID]models.Product) ([]models.CartItemDetail, float64) {
	details := []models.CartItemDetail{}
	total := 0.0
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		subtotal := p.Price * float64(item.Quantity)
		details = append(details, models.CartItemDetail{
			ProductID: item.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Stock:     p.Stock,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return details, total
}

// getOrCreateCart retourne le panier de l'utilisateur, créé paresseusement au premier accès
func getOrCreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := database.Carts().FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := database.Carts().InsertOne(ctx, cart); err != nil {
		// course possible entre deux premiers accès : l'index unique tranche
		if mongo.IsDuplicateKeyError(err) {
			if err := database.Carts().FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
				return nil, err
			}
			return &cart, nil
		}
		return nil, err
	}
	return &cart, nil
}

// fetchCartProducts charge en une requête tous les produits référencés par le panier
func fetchCartProducts(ctx context.Context, items []models.CartItem) (map[primitive.ObjectID]models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products := map[primitive.ObjectID]models.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := database.Products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, cursor.Err()
}

// notifyCartChange publie sur Redis pour la synchro websocket
func notifyCartChange(ctx context.Context, userID, event string) {
	if err := database.Redis.Publish(ctx, "cart:"+userID, event).Err(); err != nil {
		log.Println("⚠️ Erreur publication cart:", err)
	}
}

// respondWithCart renvoie le panier enrichi et son total recalculé
func respondWithCart(c *gin.Context, ctx context.Context, cart *models.Cart, message string) {
	products, err := fetchCartProducts(ctx, cart.Items)
	if err != nil {
		utils.ServerError(c)
		return
	}
	details, total := buildCartDetails(cart.Items, products)
	utils.Success(c, http.StatusOK, gin.H{
		"cart":  cart,
		"items": details,
		"total": total,
	}, message)
}

// GET /api/cart
func GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		utils.ServerError(c)
		return
	}

	respondWithCart(c, ctx, cart, "Cart retrieved successfully")
}

// POST /api/cart
func AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 1 {
		utils.BadRequest(c, "Quantity must be at least 1")
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		utils.ServerError(c)
		return
	}

	// Règle de fusion : une ligne existante est incrémentée, jamais dupliquée.
	// Le contrôle de stock porte sur la quantité cumulée.
	items, cumulative := mergeCartItem(cart.Items, productID, quantity)
	if product.Stock < cumulative {
		utils.BadRequest(c, "Not enough stock available")
		return
	}
	cart.Items = items

	if _, err := database.Carts().UpdateByID(ctx, cart.ID, bson.M{
		"$set": bson.M{"items": cart.Items, "updated_at": time.Now()},
	}); err != nil {
		log.Println("❌ Erreur mise à jour panier:", err)
		utils.ServerError(c)
		return
	}

	notifyCartChange(ctx, userID.Hex(), "updated")
	respondWithCart(c, ctx, cart, "Item added to cart")
}

// PUT /api/cart
func UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if input.Quantity < 1 {
		utils.BadRequest(c, "Quantity must be at least 1")
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		utils.NotFound(c, "Product not found")
		return
	}
	if product.Stock < input.Quantity {
		utils.BadRequest(c, "Not enough stock available")
		return
	}

	var cart models.Cart
	if err := database.Carts().FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
		utils.NotFound(c, "Cart not found")
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = input.Quantity
			found = true
			break
		}
	}
	if !found {
		utils.NotFound(c, "Item not found in cart")
		return
	}

	if _, err := database.Carts().UpdateByID(ctx, cart.ID, bson.M{
		"$set": bson.M{"items": cart.Items, "updated_at": time.Now()},
	}); err != nil {
		utils.ServerError(c)
		return
	}

	notifyCartChange(ctx, userID.Hex(), "updated")
	respondWithCart(c, ctx, &cart, "Cart updated successfully")
}

// DELETE /api/cart/items/:productId
func RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Suppression idempotente : retirer une ligne absente (ou d'un panier
	// encore jamais créé) réussit
	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		utils.ServerError(c)
		return
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered

	if _, err := database.Carts().UpdateByID(ctx, cart.ID, bson.M{
		"$set": bson.M{"items": cart.Items, "updated_at": time.Now()},
	}); err != nil {
		utils.ServerError(c)
		return
	}

	notifyCartChange(ctx, userID.Hex(), "updated")
	respondWithCart(c, ctx, cart, "Item removed from cart")
}

// DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		utils.ServerError(c)
		return
	}

	cart.Items = []models.CartItem{}
	if _, err := database.Carts().UpdateByID(ctx, cart.ID, bson.M{
		"$set": bson.M{"items": cart.Items, "updated_at": time.Now()},
	}); err != nil {
		utils.ServerError(c)
		return
	}

	notifyCartChange(ctx, userID.Hex(), "cleared")
	utils.Success(c, http.StatusOK, gin.H{
		"cart":  cart,
		"items": []models.CartItemDetail{},
		"total": 0,
	}, "Cart cleared successfully")
}

// currentUserID lit l'identifiant utilisateur posé par le middleware JWT
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		utils.Unauthorized(c, "Invalid or expired token")
		return primitive.NilObjectID, false
	}
	return userID, true
}
