package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart est unique par utilisateur (index unique sur user)
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CartItemDetail est la vue enrichie d'une ligne de panier, avec les infos
// produit re-lues au moment de la requête (prix toujours actuel)
type CartItemDetail struct {
	ProductID primitive.ObjectID `json:"productId"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	ImageURL  string             `json:"imageUrl"`
	Stock     int                `json:"stock"`
	Quantity  int                `json:"quantity"`
	Subtotal  float64            `json:"subtotal"`
}
