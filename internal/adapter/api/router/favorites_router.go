package router

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/adapter/api/handler"
	"phonemart/internal/adapter/api/middleware"
)

func SetupFavoritesRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	favoritesHandler := handler.GetFavoritesHandler()
	feedHandler := handler.GetFavoritesFeedHandler()

	// All favorites endpoints require authentication.
	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)

	favorites.GET("", favoritesHandler.ListFavorites)                         // GET /v1/favorites - List with count
	favorites.GET("/count", favoritesHandler.GetFavoriteCount)                // GET /v1/favorites/count - Local count
	favorites.POST("/:productId", favoritesHandler.AddFavorite,
		rateLimitMiddleware.Limit("toggle_favorite"))                         // POST /v1/favorites/:productId - Add
	favorites.POST("/:productId/toggle", favoritesHandler.ToggleFavorite,
		rateLimitMiddleware.Limit("toggle_favorite"))                         // POST /v1/favorites/:productId/toggle - Toggle
	favorites.GET("/:productId/status", favoritesHandler.CheckFavoriteStatus) // GET /v1/favorites/:productId/status - Store-level check
	favorites.DELETE("/:id", favoritesHandler.RemoveFavorite)                 // DELETE /v1/favorites/:id - Remove by favorite id
	favorites.DELETE("/product/:productId", favoritesHandler.RemoveFavoriteByProduct) // DELETE /v1/favorites/product/:productId - Remove by product

	// The push feed accepts anonymous connections; they just see the
	// empty anonymous view until the client authenticates.
	e.GET("/v1/favorites/feed", feedHandler.Serve, authMiddleware.AuthenticateOptional)
}
