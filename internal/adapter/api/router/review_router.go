package router

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/adapter/api/handler"
	"phonemart/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	reviewHandler := handler.GetReviewHandler()
	imageHandler := handler.GetReviewImageHandler()

	reviews := e.Group("/v1/reviews")
	reviews.Use(authMiddleware.Authenticate)

	reviews.POST("", reviewHandler.CreateReview,
		rateLimitMiddleware.Limit("create_review"))  // POST /v1/reviews - Create a review
	reviews.GET("/me", reviewHandler.GetMyReviews)   // GET /v1/reviews/me - Current user's reviews
	reviews.POST("/images", imageHandler.UploadImage,
		rateLimitMiddleware.Limit("upload_image"))   // POST /v1/reviews/images - Upload an attachment

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)
	orders.GET("/:orderId/reviewed", reviewHandler.CheckOrderReviewed) // GET /v1/orders/:orderId/reviewed - Gate the review action
}
