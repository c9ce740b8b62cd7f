package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"menuthenu/internal/auth"
	"menuthenu/internal/middleware"
	"menuthenu/internal/models"
	"menuthenu/internal/store"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Menus     []string  `json:"menus"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	menus := make([]string, 0, len(user.Menus))
	for _, id := range user.Menus {
		menus = append(menus, id.Hex())
	}
	return userResponse{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Menus:     menus,
		CreatedAt: user.CreatedAt,
	}
}

func Register(users store.UserStore, jwtSecret string, accessTTL time.Duration, logger zerolog.Logger) gin.HandlerFunc {
	const route = "POST /api/auth/register"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		username := strings.TrimSpace(req.Username)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if username == "" || email == "" {
			respondWithError(c, logger, http.StatusBadRequest, route, "username and email are required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error().Err(err).Msg("password hashing failed")
			respondWithError(c, logger, http.StatusInternalServerError, route, "internal server error")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Menus:        []primitive.ObjectID{},
		}
		if err := users.Create(ctx, &user); err != nil {
			respondStoreError(c, logger, route, err, "user not found", "username or email already in use")
			return
		}

		token, err := auth.IssueToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			logger.Error().Err(err).Msg("token generation failed")
			respondWithError(c, logger, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		logger.Info().Str("user_id", user.ID.Hex()).Msg("user registered")
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": newUserResponse(user)})
	}
}

func Login(users store.UserStore, jwtSecret string, accessTTL time.Duration, logger zerolog.Logger) gin.HandlerFunc {
	const route = "POST /api/auth/login"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, logger, http.StatusBadRequest, route, "email and password are required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			respondStoreError(c, logger, route, err, "invalid credentials", "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := auth.IssueToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			logger.Error().Err(err).Msg("token generation failed")
			respondWithError(c, logger, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		logger.Info().Str("user_id", user.ID.Hex()).Msg("user logged in")
		c.JSON(http.StatusOK, gin.H{"token": token, "user": newUserResponse(user)})
	}
}

// GetMe returns the caller's profile together with the menus they own.
func GetMe(users store.UserStore, menus store.MenuStore, logger zerolog.Logger) gin.HandlerFunc {
	const route = "GET /api/users/me"

	return func(c *gin.Context) {
		defer handlePanic(c, logger, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			respondStoreError(c, logger, route, err, "user not found", "user conflict")
			return
		}

		owned, err := menus.ListByUser(ctx, userID)
		if err != nil {
			respondStoreError(c, logger, route, err, "user not found", "user conflict")
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user), "menus": owned})
	}
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
