package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"ghariyaal_back_end/internal/cache"
	"ghariyaal_back_end/internal/database"
	"ghariyaal_back_end/internal/models"
	"ghariyaal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const resetTokenTTL = 1 * time.Hour

// ================== AUTH ==================

// POST /api/auth/register
func Register(c *gin.Context) {
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

	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.BadRequest(c, "Name, email and password are required")
		return
	}
	if !strings.Contains(input.Email, "@") {
		utils.BadRequest(c, "Please provide a valid email address")
		return
	}
	if len(input.Password) < 8 {
		utils.BadRequest(c, "Password must be at least 8 characters long")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// email déjà pris ?
	var existing models.User
	err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil {
		utils.Conflict(c, "User already exists")
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
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		// l'index unique attrape la course entre le FindOne et l'InsertOne
		if mongo.IsDuplicateKeyError(err) {
			utils.Conflict(c, "User already exists")
			return
		}
		log.Println("❌ Erreur création utilisateur:", err)
		utils.ServerError(c)
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		utils.ServerError(c)
		return
	}

	utils.Created(c, gin.H{"user": user, "token": token}, "User registered successfully")
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.BadRequest(c, "Please provide email and password")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Message identique que l'email soit inconnu ou le mot de passe faux :
	// pas de fuite d'existence de compte
	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&user)
	if err != nil {
		utils.Unauthorized(c, "Incorrect email or password")
		return
	}

	valid, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !valid {
		utils.Unauthorized(c, "Incorrect email or password")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		utils.ServerError(c)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"user": user, "token": token}, "Login successful")
}

// GET /api/auth/me
func GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := cache.GetUser(ctx, userID)
	if err != nil {
		utils.Unauthorized(c, "Invalid or expired token")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"user": user}, "User profile retrieved successfully")
}

// POST /api/auth/change-password
func ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if len(input.NewPassword) < 8 {
		utils.BadRequest(c, "Password must be at least 8 characters long")
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	valid, err := utils.VerifyPassword(input.CurrentPassword, user.Password)
	if err != nil || !valid {
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.ServerError(c)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = database.Users().UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"password": hashedPassword, "updated_at": time.Now()},
	})
	if err != nil {
		log.Println("❌ Erreur mise à jour mot de passe:", err)
		utils.ServerError(c)
		return
	}

	cache.InvalidateUser(ctx, user.ID)

	user.Password = hashedPassword
	token, err := utils.GenerateJWT(*user)
	if err != nil {
		utils.ServerError(c)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"token": token}, "Password changed successfully")
}

// POST /api/auth/forgot-password
func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		utils.BadRequest(c, "Please provide an email address")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Réponse identique que le compte existe ou non
	const message = "If an account exists for this e-mail, a reset link has been sent"

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&user)
	if err != nil {
		utils.Success(c, http.StatusOK, nil, message)
		return
	}

	resetToken := uuid.NewString()
	if err := database.Redis.Set(ctx, "password_reset:"+resetToken, user.ID.Hex(), resetTokenTTL).Err(); err != nil {
		log.Println("❌ Erreur stockage token reset:", err)
		utils.ServerError(c)
		return
	}

	resetURL := os.Getenv("FRONTEND_RESET_URL")
	if resetURL == "" {
		resetURL = "http://localhost:3000/reset-password"
	}
	resetURL += "?token=" + resetToken

	go func(to, url string) {
		if err := utils.SendEmail(to, "Reset your Ghariyaal password", utils.GeneratePasswordResetHTML(url)); err != nil {
			log.Println("❌ Erreur envoi e-mail reset:", err)
		}
	}(user.Email, resetURL)

	utils.Success(c, http.StatusOK, nil, message)
}

// POST /api/auth/reset-password
func ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if len(input.NewPassword) < 8 {
		utils.BadRequest(c, "Password must be at least 8 characters long")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := "password_reset:" + input.Token
	userIDHex, err := database.Redis.Get(ctx, key).Result()
	if err != nil || userIDHex == "" {
		utils.BadRequest(c, "Invalid or expired reset token")
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		utils.BadRequest(c, "Invalid or expired reset token")
		return
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.ServerError(c)
		return
	}

	res, err := database.Users().UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"password": hashedPassword, "updated_at": time.Now()},
	})
	if err != nil || res.MatchedCount == 0 {
		utils.BadRequest(c, "Invalid or expired reset token")
		return
	}

	// token à usage unique
	database.Redis.Del(ctx, key)
	cache.InvalidateUser(ctx, userID)

	utils.Success(c, http.StatusOK, nil, "Password reset successfully")
}

// currentUser recharge l'utilisateur résolu par le middleware JWT.
// Répond 401 (token orphelin) et retourne ok=false si l'utilisateur n'existe plus.
func currentUser(c *gin.Context) (*models.User, bool) {
	userIDHex := c.GetString("user_id")
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		utils.Unauthorized(c, "Invalid or expired token")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Unauthorized(c, "Invalid or expired token")
		return nil, false
	}
	return &user, true
}
