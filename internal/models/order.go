package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"

	PaymentCashOnDelivery = "Cash on Delivery"
)

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

// IsComplete vérifie que tous les champs de l'adresse sont renseignés
func (a Address) IsComplete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// OrderItem fige le prix au moment de l'achat (snapshot immuable)
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	Address       Address            `bson:"address" json:"address"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidStatus vérifie que le statut fait partie de l'énumération
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition implémente la machine à états des commandes :
// Pending → {Shipped, Cancelled}, Shipped → {Delivered, Cancelled},
// Delivered et Cancelled sont terminaux. Rester sur le même statut est un no-op autorisé.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered || to == StatusCancelled
	}
	return false
}

// ShouldRestock décide de la restitution du stock : uniquement en entrant
// dans Cancelled depuis un autre statut. Une seconde annulation (no-op
// Cancelled → Cancelled) ne restocke pas une deuxième fois.
func ShouldRestock(from, to string) bool {
	return to == StatusCancelled && from != StatusCancelled
}
