package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListItems returns the menu's items in insertion order.
func (h MenuHandlers) ListItems() gin.HandlerFunc {
	const route = "GET /api/menus/:id/items"

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
			respondStoreError(c, h.Logger, route, err, "menu not found", "item conflict")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// AddItems appends one item or a batch to the menu's collection.
func (h MenuHandlers) AddItems() gin.HandlerFunc {
	const route = "POST /api/menus/:id/items"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, "invalid body")
			return
		}
		inputs, err := decodeItemBatch(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
			return
		}
		if len(inputs) == 0 {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, "at least one item is required")
			return
		}
		items, err := itemsFromInputs(inputs)
		if err != nil {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		inserted, err := h.Items.Insert(ctx, menu.CollectionName, menu.ID, items)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "item conflict")
			return
		}

		h.Logger.Info().Str("menu_id", menu.ID.Hex()).Int("count", len(inserted)).Msg("items added")
		c.JSON(http.StatusCreated, inserted)
	}
}

func (h MenuHandlers) UpdateItem() gin.HandlerFunc {
	const route = "PUT /api/menus/:id/items/:itemId"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		itemID, ok := objectIDParam(c, "itemId")
		if !ok {
			respondWithError(c, h.Logger, http.StatusNotFound, route, "item not found")
			return
		}

		var req ItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		if patch.Empty() {
			item, err := h.Items.Get(ctx, menu.CollectionName, itemID)
			if err != nil {
				respondStoreError(c, h.Logger, route, err, "item not found", "item conflict")
				return
			}
			c.JSON(http.StatusOK, item)
			return
		}

		item, err := h.Items.Update(ctx, menu.CollectionName, itemID, patch)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "item not found", "item conflict")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
