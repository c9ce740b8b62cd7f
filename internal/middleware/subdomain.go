package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/render"
	"menuthenu/internal/store"
	"menuthenu/internal/subdomain"
)

const notFoundPage = `<!DOCTYPE html><html><head><meta charset="utf-8"><title>Menu not found</title></head>` +
	`<body><h1>Menu not found</h1><p>This menu does not exist or is not published.</p></body></html>`

// SubdomainRouter serves the rendered page of the published menu whose
// subdomain matches the request host. API and upload routes are never
// intercepted, and hosts without a subdomain fall through to the next handler.
func SubdomainRouter(menus store.MenuStore, items store.ItemStore, baseDomain string, logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "subdomain-router").Logger()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" || strings.HasPrefix(path, "/uploads/") {
			c.Next()
			return
		}

		candidate := subdomain.FromHost(c.Request.Host, baseDomain)
		if candidate == "" {
			c.Next()
			return
		}

		menu, err := menus.FindPublishedBySubdomain(c.Request.Context(), candidate)
		if errors.Is(err, store.ErrNotFound) {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage))
			c.Abort()
			return
		}
		if err != nil {
			logger.Error().Err(err).Str("subdomain", candidate).Msg("menu lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		menuItems, err := items.List(c.Request.Context(), menu.CollectionName)
		if err != nil {
			logger.Error().Err(err).Str("subdomain", candidate).Msg("item lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		page, err := render.Page(menu, menuItems)
		if err != nil {
			logger.Error().Err(err).Str("subdomain", candidate).Msg("render failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		c.Abort()
	}
}
