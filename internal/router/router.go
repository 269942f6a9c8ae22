package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/auth"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/config"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/handler"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, cached
// through Redis when one is configured.
func RegisterRoutes(e *echo.Echo, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	e.GET("/healthz", handler.Health, middleware.NewRedisCache(cacheCfg, rdb))
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations live under /api/auth; the protected profile endpoint lives
// under /api and runs the JWT middleware first.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout is a stateless acknowledgement; it does not require a token.
	g.POST("/logout", a.Logout)

	protected := e.Group("/api")
	protected.Use(middleware.JWTAuth(tokens))
	protected.GET("/me", a.Me)
}

// RegisterEvents registers the event CRUD and sharing endpoints under
// /api/events. Every route requires a valid access token; the per-action
// ownership and grant checks happen inside the handlers.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, tokens *auth.TokenService) {
	g := e.Group("/api/events")
	g.Use(middleware.JWTAuth(tokens))

	g.POST("", h.CreateEvent)
	g.GET("", h.ListEvents)
	g.GET("/:id", h.GetEvent)
	g.PUT("/:id", h.UpdateEvent)
	g.DELETE("/:id", h.DeleteEvent)

	// Sharing management (owner-only, enforced in the handlers).
	g.POST("/:id/share", h.ShareEvent)
	g.GET("/:id/permissions", h.ListPermissions)
	g.PUT("/:id/permissions/:user_id", h.UpdatePermission)
	g.DELETE("/:id/permissions/:user_id", h.RevokeAccess)
}
