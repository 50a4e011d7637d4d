package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ghariyaal_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse le panier recalculé à chaque mutation (synchro multi-onglets).
// Les mutations publient "updated"/"cleared" sur le canal Redis cart:<userID>.
func CartWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID.Hex())
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Cart sync enabled",
	})

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			cart, err := getOrCreateCart(ctx, userID)
			if err != nil {
				log.Println("❌ Erreur lecture panier (ws):", err)
				continue
			}
			products, err := fetchCartProducts(ctx, cart.Items)
			if err != nil {
				continue
			}
			details, total := buildCartDetails(cart.Items, products)

			if err := conn.WriteJSON(map[string]interface{}{
				"type":  "cart_updated",
				"items": details,
				"total": total,
				"count": len(details),
			}); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
