package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/middleware"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ================== COMMANDES ==================

var errCartEmpty = errors.New("your cart is empty")

// insufficientStockError nomme le produit fautif pour le message client
type insufficientStockError struct {
	ProductName string
}

func (e insufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s", e.ProductName)
}

// orderTotal calcule le total d'un snapshot : Σ prix × quantité
func orderTotal(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// POST /api/orders
//
// Toute la séquence (contrôle de stock → décrément → création de la commande →
// vidage du panier) tourne dans une seule transaction Mongo. Le décrément est
// conditionnel (stock >= quantité) : si un produit ne passe pas, la transaction
// est annulée entièrement — ni stock entamé, ni panier vidé. Deux commandes
// concurrentes sur le même produit en rupture ne peuvent donc pas passer
// toutes les deux.
func CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Address models.Address `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if !input.Address.IsComplete() {
		utils.BadRequest(c, "Please provide complete delivery address")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := database.MongoClient.StartSession()
	if err != nil {
		log.Println("❌ Erreur ouverture session Mongo:", err)
		utils.ServerError(c)
		return
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var cart models.Cart
		if err := database.Carts().FindOne(sc, bson.M{"user": userID}).Decode(&cart); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, errCartEmpty
			}
			return nil, err
		}
		if len(cart.Items) == 0 {
			return nil, errCartEmpty
		}

		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			var product models.Product
			if err := database.Products().FindOne(sc, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, insufficientStockError{ProductName: item.ProductID.Hex()}
				}
				return nil, err
			}

			// décrément conditionnel : échoue si le stock est déjà insuffisant
			res, err := database.Products().UpdateOne(sc,
				bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"stock": -item.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if res.ModifiedCount == 0 {
				return nil, insufficientStockError{ProductName: product.Name}
			}

			// snapshot immuable : prix et nom figés au moment de l'achat
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
		}

		now := time.Now()
		order := models.Order{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			Items:         orderItems,
			TotalPrice:    orderTotal(orderItems),
			Address:       input.Address,
			Status:        models.StatusPending,
			PaymentMethod: models.PaymentCashOnDelivery,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if _, err := database.Orders().InsertOne(sc, order); err != nil {
			return nil, err
		}

		// le panier est vidé, pas supprimé
		if _, err := database.Carts().UpdateByID(sc, cart.ID, bson.M{
			"$set": bson.M{"items": []models.CartItem{}, "updated_at": now},
		}); err != nil {
			return nil, err
		}

		return order, nil
	})
	if err != nil {
		var stockErr insufficientStockError
		switch {
		case errors.Is(err, errCartEmpty):
			utils.BadRequest(c, "Your cart is empty")
		case errors.As(err, &stockErr):
			utils.BadRequest(c, stockErr.Error())
		default:
			log.Println("❌ Erreur création commande:", err)
			utils.ServerError(c)
		}
		return
	}

	order := result.(models.Order)

	invalidateProductListCache(ctx)
	notifyCartChange(ctx, userID.Hex(), "cleared")

	// Confirmation par e-mail avec le QR de référence de paiement à la livraison
	if email := c.GetString("email"); email != "" {
		go func(o models.Order, to string) {
			qr, err := utils.GeneratePaymentRefQR(o.ID.Hex(), o.TotalPrice)
			if err != nil {
				log.Println("⚠️ Erreur génération QR:", err)
			}
			html := utils.GenerateOrderConfirmationHTML(o, qr)
			if err := utils.SendEmail(to, "Your Ghariyaal order is confirmed", html); err != nil {
				log.Println("❌ Erreur envoi e-mail confirmation:", err)
			}
		}(order, email)
	}

	utils.Created(c, order, "Order created successfully")
}

// GET /api/orders/me
func GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders().Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		log.Println("❌ Erreur MongoDB Find commandes:", err)
		utils.ServerError(c)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.ServerError(c)
		return
	}

	utils.SuccessWithMeta(c, http.StatusOK, orders, "Orders retrieved successfully", gin.H{
		"count": len(orders),
	})
}

// GET /api/orders/admin/orders
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders().Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.ServerError(c)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.ServerError(c)
		return
	}

	totalAmount := 0.0
	for _, order := range orders {
		totalAmount += order.TotalPrice
	}

	utils.SuccessWithMeta(c, http.StatusOK, orders, "Orders retrieved successfully", gin.H{
		"count":       len(orders),
		"totalAmount": totalAmount,
	})
}

// GET /api/orders/:id — propriétaire ou admin
func GetOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	if !middleware.CanAccessResource(c.GetString("role"), c.GetString("user_id"), order.UserID.Hex()) {
		utils.Forbidden(c, "Not authorized to view this order")
		return
	}

	utils.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// PATCH /api/orders/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidStatus(input.Status) {
		utils.BadRequest(c, "Invalid order status")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	session, err := database.MongoClient.StartSession()
	if err != nil {
		utils.ServerError(c)
		return
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var order models.Order
		if err := database.Orders().FindOne(sc, bson.M{"_id": orderID}).Decode(&order); err != nil {
			return nil, err
		}

		if !models.CanTransition(order.Status, input.Status) {
			return nil, fmt.Errorf("%w: %s → %s", errIllegalTransition, order.Status, input.Status)
		}

		// restock une seule fois : uniquement en entrant dans Cancelled
		if models.ShouldRestock(order.Status, input.Status) {
			for _, item := range order.Items {
				if _, err := database.Products().UpdateOne(sc,
					bson.M{"_id": item.ProductID},
					bson.M{"$inc": bson.M{"stock": item.Quantity}},
				); err != nil {
					return nil, err
				}
			}
		}

		order.Status = input.Status
		order.UpdatedAt = time.Now()
		if _, err := database.Orders().UpdateByID(sc, orderID, bson.M{
			"$set": bson.M{"status": order.Status, "updated_at": order.UpdatedAt},
		}); err != nil {
			return nil, err
		}

		return order, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			utils.NotFound(c, "Order not found")
		case errors.Is(err, errIllegalTransition):
			utils.BadRequest(c, err.Error())
		default:
			log.Println("❌ Erreur mise à jour statut:", err)
			utils.ServerError(c)
		}
		return
	}

	order := result.(models.Order)
	if order.Status == models.StatusCancelled {
		invalidateProductListCache(ctx)
	}

	utils.Success(c, http.StatusOK, order, "Order status updated successfully")
}

var errIllegalTransition = errors.New("Invalid status transition")
