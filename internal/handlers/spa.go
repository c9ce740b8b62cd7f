package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SPA serves the single page app shell for any unmatched GET outside /api.
// Static assets under dir are served as-is. Without a shell the route is a
// plain 404.
func SPA(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		if dir != "" {
			asset := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
			if info, err := os.Stat(asset); err == nil && !info.IsDir() {
				c.File(asset)
				return
			}
			if _, err := os.Stat(index); err == nil {
				c.File(index)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
}
