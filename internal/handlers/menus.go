package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/middleware"
	"menuthenu/internal/models"
	"menuthenu/internal/store"
)

const defaultTemplate = "Classic"

type CreateMenuRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	Template      string                `json:"template"`
	Customization *models.Customization `json:"customization"`
	Items         []ItemInput           `json:"items"`
}

type UpdateMenuRequest struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Template      *string               `json:"template"`
	Customization *models.Customization `json:"customization"`
}

// MenuHandlers groups the stores every menu route needs.
type MenuHandlers struct {
	Users  store.UserStore
	Menus  store.MenuStore
	Items  store.ItemStore
	Logger zerolog.Logger
}

// CreateMenu stores a new menu owned by the caller, provisions its item
// collection name and inserts any items sent along.
func (h MenuHandlers) CreateMenu() gin.HandlerFunc {
	const route = "POST /api/menus"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, h.Logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req CreateMenuRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, "name is required")
			return
		}

		items, err := itemsFromInputs(req.Items)
		if err != nil {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, err.Error())
			return
		}

		customization := models.Customization{}
		if req.Customization != nil {
			customization = *req.Customization
		}
		template := strings.TrimSpace(req.Template)
		if template == "" {
			template = defaultTemplate
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menu := models.Menu{
			Name:           name,
			Description:    strings.TrimSpace(req.Description),
			Template:       template,
			UserID:         &userID,
			CollectionName: store.NewCollectionName(),
			Customization:  customization.WithDefaults(),
		}
		if err := h.Menus.Create(ctx, &menu); err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "menu already exists")
			return
		}

		if len(items) > 0 {
			if _, err := h.Items.Insert(ctx, menu.CollectionName, menu.ID, items); err != nil {
				h.Logger.Error().Err(err).Str("menu_id", menu.ID.Hex()).Msg("initial item insert failed, rolling back menu")
				h.discardMenu(menu)
				respondWithError(c, h.Logger, http.StatusInternalServerError, route, "internal server error")
				return
			}
		}

		if err := h.Users.AddMenu(ctx, userID, menu.ID); err != nil {
			h.Logger.Warn().Err(err).Str("menu_id", menu.ID.Hex()).Msg("failed to link menu to user")
		}

		h.Logger.Info().Str("menu_id", menu.ID.Hex()).Int("items", len(items)).Msg("menu created")
		c.JSON(http.StatusCreated, menu)
	}
}

// discardMenu removes a half-created menu on a fresh context so a cancelled
// request still cleans up.
func (h MenuHandlers) discardMenu(menu models.Menu) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := h.Items.DropCollection(ctx, menu.CollectionName); err != nil {
		h.Logger.Warn().Err(err).Str("collection", menu.CollectionName).Msg("drop collection failed")
	}
	if err := h.Menus.Delete(ctx, menu.ID); err != nil {
		h.Logger.Warn().Err(err).Str("menu_id", menu.ID.Hex()).Msg("delete menu failed")
	}
}

// ListMenus returns the caller's menus, newest first.
func (h MenuHandlers) ListMenus() gin.HandlerFunc {
	const route = "GET /api/menus"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, h.Logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menus, err := h.Menus.ListByUser(ctx, userID)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "menu conflict")
			return
		}
		c.JSON(http.StatusOK, menus)
	}
}

func (h MenuHandlers) GetMenu() gin.HandlerFunc {
	const route = "GET /api/menus/:id"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		items, err := h.Items.List(ctx, menu.CollectionName)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "menu conflict")
			return
		}
		c.JSON(http.StatusOK, gin.H{"menu": menu, "items": items})
	}
}

func (h MenuHandlers) UpdateMenu() gin.HandlerFunc {
	const route = "PUT /api/menus/:id"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		var req UpdateMenuRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		patch := store.MenuPatch{
			Description: req.Description,
			Template:    req.Template,
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, h.Logger, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			patch.Name = &name
		}
		if req.Customization != nil {
			customization := req.Customization.WithDefaults()
			patch.Customization = &customization
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		updated, err := h.Menus.Update(ctx, menu.ID, patch)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "menu conflict")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteMenu drops the item collection, the menu document and the owner's
// reference. Failing to drop the collection is logged and does not block.
func (h MenuHandlers) DeleteMenu() gin.HandlerFunc {
	const route = "DELETE /api/menus/:id"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		if err := h.Items.DropCollection(ctx, menu.CollectionName); err != nil {
			h.Logger.Warn().Err(err).Str("collection", menu.CollectionName).Msg("drop collection failed")
		}

		if err := h.Menus.Delete(ctx, menu.ID); err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "menu conflict")
			return
		}

		if menu.UserID != nil {
			if err := h.Users.RemoveMenu(ctx, *menu.UserID, menu.ID); err != nil {
				h.Logger.Warn().Err(err).Str("menu_id", menu.ID.Hex()).Msg("failed to unlink menu from user")
			}
		}

		h.Logger.Info().Str("menu_id", menu.ID.Hex()).Msg("menu deleted")
		c.Status(http.StatusNoContent)
	}
}
