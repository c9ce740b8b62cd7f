package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"menuthenu/internal/render"
	"menuthenu/internal/subdomain"
)

type PublishRequest struct {
	IsPublished *bool `json:"isPublished"`
}

type SubdomainRequest struct {
	Subdomain string `json:"subdomain"`
}

func (h MenuHandlers) takenBy(exclude primitive.ObjectID) subdomain.TakenFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		if subdomain.Reserved(candidate) {
			return true, nil
		}
		return h.Menus.SubdomainTaken(ctx, candidate, exclude)
	}
}

// PublishMenu toggles publication. A menu published without a subdomain gets
// one derived from its name.
func (h MenuHandlers) PublishMenu() gin.HandlerFunc {
	const route = "POST /api/menus/:id/publish"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		// An empty body, sized or chunked, means publish.
		var req PublishRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondValidationError(c, err)
			return
		}
		publish := req.IsPublished == nil || *req.IsPublished

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		assigned := ""
		if publish && menu.SubdomainValue() == "" {
			var err error
			assigned, err = subdomain.Allocate(ctx, subdomain.Base(menu.Name), h.takenBy(menu.ID))
			if err != nil {
				if errors.Is(err, subdomain.ErrExhausted) {
					respondWithError(c, h.Logger, http.StatusConflict, route, "no free subdomain available")
					return
				}
				respondStoreError(c, h.Logger, route, err, "menu not found", "subdomain already taken")
				return
			}
		}

		updated, err := h.Menus.SetPublished(ctx, menu.ID, publish, assigned)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "subdomain already taken")
			return
		}

		h.Logger.Info().
			Str("menu_id", menu.ID.Hex()).
			Bool("published", publish).
			Str("subdomain", updated.SubdomainValue()).
			Msg("menu publication changed")
		c.JSON(http.StatusOK, updated)
	}
}

// SetSubdomain assigns a manually chosen subdomain after slug normalization.
func (h MenuHandlers) SetSubdomain() gin.HandlerFunc {
	const route = "POST /api/menus/:id/subdomain"

	return func(c *gin.Context) {
		defer handlePanic(c, h.Logger, route)

		var req SubdomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		slug := subdomain.Slugify(req.Subdomain)
		if slug == "" {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, "subdomain is required")
			return
		}
		if subdomain.Reserved(slug) {
			respondWithError(c, h.Logger, http.StatusBadRequest, route, "subdomain is reserved")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		menu, ok := loadOwnedMenu(ctx, c, h.Menus, h.Logger, route)
		if !ok {
			return
		}

		taken, err := h.Menus.SubdomainTaken(ctx, slug, menu.ID)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "subdomain already taken")
			return
		}
		if taken {
			respondWithError(c, h.Logger, http.StatusConflict, route, "subdomain already taken")
			return
		}

		updated, err := h.Menus.SetSubdomain(ctx, menu.ID, slug)
		if err != nil {
			respondStoreError(c, h.Logger, route, err, "menu not found", "subdomain already taken")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// RenderMenu returns the same HTML document a subdomain visitor gets.
func (h MenuHandlers) RenderMenu() gin.HandlerFunc {
	const route = "GET /api/menus/:id/render"

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

		page, err := render.Page(menu, items)
		if err != nil {
			h.Logger.Error().Err(err).Str("menu_id", menu.ID.Hex()).Msg("render failed")
			respondWithError(c, h.Logger, http.StatusInternalServerError, route, "internal server error")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
