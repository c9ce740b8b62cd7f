// Package router wires handlers and middleware into the gin engine.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"menuthenu/internal/handlers"
	"menuthenu/internal/middleware"
	"menuthenu/internal/storage"
	"menuthenu/internal/store"
)

// Deps is everything the HTTP surface talks to.
type Deps struct {
	Users     store.UserStore
	Menus     store.MenuStore
	Items     store.ItemStore
	Files     storage.Storage
	Extractor handlers.MenuExtractor
	Food      handlers.FoodLookup
	DB        handlers.Pinger

	JWTSecret       string
	AccessTokenTTL  time.Duration
	BaseDomain      string
	UploadDir       string // served under /uploads when non-empty
	SPADir          string
	EnrichOnExtract bool

	Logger zerolog.Logger
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(d.Logger),
		middleware.RequestLogger(d.Logger),
		middleware.CORS(),
		middleware.SubdomainRouter(d.Menus, d.Items, d.BaseDomain, d.Logger),
	)

	if d.UploadDir != "" {
		r.Static(storage.URLPrefix, d.UploadDir)
	}

	requireUser := middleware.UserAuth(d.JWTSecret, d.Logger)
	menus := handlers.MenuHandlers{
		Users:  d.Users,
		Menus:  d.Menus,
		Items:  d.Items,
		Logger: d.Logger.With().Str("component", "menus").Logger(),
	}
	authLogger := d.Logger.With().Str("component", "auth-handlers").Logger()
	uploadLogger := d.Logger.With().Str("component", "uploads").Logger()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health(d.DB))

		api.POST("/auth/register", handlers.Register(d.Users, d.JWTSecret, d.AccessTokenTTL, authLogger))
		api.POST("/auth/login", handlers.Login(d.Users, d.JWTSecret, d.AccessTokenTTL, authLogger))
		api.GET("/users/me", requireUser, handlers.GetMe(d.Users, d.Menus, authLogger))

		api.POST("/menus", requireUser, menus.CreateMenu())
		api.GET("/menus", requireUser, menus.ListMenus())
		api.GET("/menus/:id", menus.GetMenu())
		api.PUT("/menus/:id", requireUser, menus.UpdateMenu())
		api.DELETE("/menus/:id", requireUser, menus.DeleteMenu())

		api.GET("/menus/:id/items", menus.ListItems())
		api.POST("/menus/:id/items", requireUser, menus.AddItems())
		api.PUT("/menus/:id/items/:itemId", requireUser, menus.UpdateItem())

		api.POST("/menus/:id/publish", requireUser, menus.PublishMenu())
		api.POST("/menus/:id/subdomain", requireUser, menus.SetSubdomain())
		api.GET("/menus/:id/render", menus.RenderMenu())

		api.POST("/upload-background", handlers.UploadImage(d.Files, "backgroundImage", "backgrounds", uploadLogger))
		api.POST("/upload-item-image", handlers.UploadImage(d.Files, "itemImage", "items", uploadLogger))
		api.POST("/upload-avatar", requireUser, handlers.UploadAvatar(d.Files, d.Users, uploadLogger))

		api.POST("/extract-menu", handlers.ExtractMenu(d.Extractor, d.EnrichOnExtract, d.Logger.With().Str("component", "extract-handler").Logger()))
		api.GET("/food-data/:name", handlers.FoodData(d.Food, d.Logger))
	}

	r.NoRoute(handlers.SPA(d.SPADir))
	return r
}
