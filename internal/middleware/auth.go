package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userIDKey = "userId"

var (
	errMissingToken = errors.New("missing token")
	errTokenFormat  = errors.New("invalid token format")
)

func bearerToken(c *gin.Context) (string, error) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", errMissingToken
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errTokenFormat
	}
	return parts[1], nil
}

// UserID returns the caller injected by UserAuth.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}
