package router

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	SetupCatalogRouter(e, authMiddleware)
	SetupFavoritesRouter(e, authMiddleware, rateLimitMiddleware)
	SetupReviewRouter(e, authMiddleware, rateLimitMiddleware)
	SetupHealthRouter(e)
}
