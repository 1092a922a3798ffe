package router

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/adapter/api/handler"
	"phonemart/internal/adapter/api/middleware"
)

func SetupCatalogRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	catalogHandler := handler.GetCatalogHandler()
	reviewHandler := handler.GetReviewHandler()

	// Catalog reads are open to anonymous sessions.
	products := e.Group("/v1/products")
	products.GET("", catalogHandler.ListProducts)                  // GET /v1/products?refresh=true - List products
	products.GET("/:id", catalogHandler.GetProduct)                // GET /v1/products/:id - Get one product
	products.GET("/:id/reviews", reviewHandler.GetProductReviews)  // GET /v1/products/:id/reviews - Reviews, newest first
	products.POST("/invalidate", catalogHandler.Invalidate,
		authMiddleware.Authenticate)                               // POST /v1/products/invalidate - Drop the cache
}
