package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/auth"
)

// UserAuth validates the bearer token and injects the userId into the context.
// Missing, malformed, invalid and expired tokens all get 401.
func UserAuth(secret string, logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "auth").Logger()

	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejecting request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, err := auth.ParseToken(raw, secret)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
