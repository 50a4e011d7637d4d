package cache

import (
	"context"
	"encoding/json"
	"time"

	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserCacheTTL = 5 * time.Minute

// GetUser récupère un utilisateur depuis Redis, ou depuis MongoDB en cas de miss.
// Évite un aller-retour Mongo par requête authentifiée.
func GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	key := "user:" + userID.Hex()

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de MongoDB
	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}

	// 3. Mettre en cache — sans le hash de mot de passe
	cached := user
	cached.Password = ""
	if jsonData, err := json.Marshal(cached); err == nil {
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}

	return &user, nil
}

// InvalidateUser purge le cache après toute mutation du compte
// (changement de rôle, de mot de passe, suppression)
func InvalidateUser(ctx context.Context, userID primitive.ObjectID) {
	database.Redis.Del(ctx, "user:"+userID.Hex())
}
