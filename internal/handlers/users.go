package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ghariyaal_back_end/internal/cache"
	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ================== ADMINISTRATION UTILISATEURS ==================
// Toutes ces routes sont derrière AuthRequired + RequireAdmin.

// GET /api/users?search=&role=&page=&limit=
func GetAllUsers(c *gin.Context) {
	page, limit := parsePagination(c.Query("page"), c.Query("limit"))

	filter := bson.M{}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		// sous-chaîne insensible à la casse sur nom ou email
		pattern := regexp.QuoteMeta(search)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Users().CountDocuments(ctx, filter)
	if err != nil {
		utils.ServerError(c)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"password": 0})

	cursor, err := database.Users().Find(ctx, filter, opts)
	if err != nil {
		log.Println("❌ Erreur MongoDB Find utilisateurs:", err)
		utils.ServerError(c)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.ServerError(c)
		return
	}

	utils.SuccessWithPagination(c, users, utils.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: utils.TotalPages(total, limit),
	}, "Users retrieved successfully")
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = database.Users().FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&user)
	if err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"user": user}, "User retrieved successfully")
}

// PUT /api/users/:id/role
func UpdateUserRole(c *gin.Context) {
	var input struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidRole(input.Role) {
		utils.BadRequest(c, "Invalid role. Must be either customer or admin")
		return
	}

	// auto-promotion/rétrogradation interdite
	if c.Param("id") == c.GetString("user_id") {
		utils.BadRequest(c, "You cannot change your own role")
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = database.Users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role": input.Role, "updated_at": time.Now()}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.NotFound(c, "User not found")
			return
		}
		utils.ServerError(c)
		return
	}

	cache.InvalidateUser(ctx, userID)

	utils.Success(c, http.StatusOK, gin.H{"user": user}, "User role updated to "+input.Role+" successfully")
}

// POST /api/users/create-admin
func CreateAdmin(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" || input.Email == "" {
		utils.BadRequest(c, "Name and email are required")
		return
	}
	if len(input.Password) < 8 {
		utils.BadRequest(c, "Password must be at least 8 characters long")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing); err == nil {
		utils.Conflict(c, "User with this email already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.ServerError(c)
		return
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin, // rôle forcé, quel que soit le payload
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Conflict(c, "User with this email already exists")
			return
		}
		log.Println("❌ Erreur création admin:", err)
		utils.ServerError(c)
		return
	}

	utils.Created(c, gin.H{"user": user}, "Admin user created successfully")
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	// auto-suppression interdite
	if c.Param("id") == c.GetString("user_id") {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := database.Users().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		utils.ServerError(c)
		return
	}
	if res.DeletedCount == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	// le panier suit son propriétaire
	database.Carts().DeleteOne(ctx, bson.M{"user": userID})
	cache.InvalidateUser(ctx, userID)

	utils.Success(c, http.StatusOK, nil, "User deleted successfully")
}
