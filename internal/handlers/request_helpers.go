package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"menuthenu/internal/middleware"
	"menuthenu/internal/models"
	"menuthenu/internal/store"
)

const requestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, logger zerolog.Logger, route string) {
	if r := recover(); r != nil {
		logger.Error().Str("route", route).Interface("panic", r).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, logger zerolog.Logger, status int, route string, message string) {
	logger.Debug().Str("route", route).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondStoreError maps store sentinels to status codes and hides anything
// unexpected behind a generic 500.
func respondStoreError(c *gin.Context, logger zerolog.Logger, route string, err error, notFound, duplicate string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(c, logger, http.StatusNotFound, route, notFound)
	case errors.Is(err, store.ErrDuplicate):
		respondWithError(c, logger, http.StatusConflict, route, duplicate)
	default:
		logger.Error().Err(err).Str("route", route).Msg("store operation failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	return id, err == nil
}

// loadMenu resolves the :id parameter. It writes the error response itself
// and returns false when the request cannot continue.
func loadMenu(ctx context.Context, c *gin.Context, menus store.MenuStore, logger zerolog.Logger, route string) (models.Menu, bool) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		respondWithError(c, logger, http.StatusNotFound, route, "menu not found")
		return models.Menu{}, false
	}

	menu, err := menus.Get(ctx, id)
	if err != nil {
		respondStoreError(c, logger, route, err, "menu not found", "menu conflict")
		return models.Menu{}, false
	}
	return menu, true
}

// loadOwnedMenu is loadMenu plus an ownership check. Menus owned by someone
// else are reported as missing.
func loadOwnedMenu(ctx context.Context, c *gin.Context, menus store.MenuStore, logger zerolog.Logger, route string) (models.Menu, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
		return models.Menu{}, false
	}

	menu, ok := loadMenu(ctx, c, menus, logger, route)
	if !ok {
		return models.Menu{}, false
	}
	if !menu.OwnedBy(userID) {
		respondWithError(c, logger, http.StatusNotFound, route, "menu not found")
		return models.Menu{}, false
	}
	return menu, true
}

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

func ensureDBConnection(ctx context.Context, db Pinger) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Ping(checkCtx, readpref.Primary())
}

// Health reports whether the database answers a ping.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
