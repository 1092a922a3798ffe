package handler

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/domain/entity"
	"phonemart/internal/usecase"
	"phonemart/pkg/errors"
	"phonemart/pkg/response"
	"phonemart/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	OrderID        string   `json:"order_id" validate:"required"`
	UserName       string   `json:"user_name" validate:"required"`
	ProductID      string   `json:"product_id" validate:"required"`
	ProductName    string   `json:"product_name"`
	VariantID      string   `json:"variant_id"`
	VariantName    string   `json:"variant_name"`
	VariantColor   string   `json:"variant_color"`
	VariantRam     string   `json:"variant_ram"`
	VariantStorage string   `json:"variant_storage"`
	Rating         float64  `json:"rating" validate:"required,min=1,max=5"`
	Comment        string   `json:"comment" validate:"required"`
	ReviewImages   []string `json:"review_images,omitempty"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	review := &entity.Review{
		OrderID:        req.OrderID,
		UserID:         userID,
		UserName:       req.UserName,
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		VariantID:      req.VariantID,
		VariantName:    req.VariantName,
		VariantColor:   req.VariantColor,
		VariantRam:     req.VariantRam,
		VariantStorage: req.VariantStorage,
		Rating:         req.Rating,
		Comment:        req.Comment,
		ReviewImages:   req.ReviewImages,
	}

	if err := h.reviewUseCase.CreateReview(c.Request().Context(), review); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	reviews, err := h.reviewUseCase.GetReviewsByProduct(c.Request().Context(), productID)
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	total := len(reviews)

	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return response.Paginated(c, reviews[start:end], int64(total), params.Page, params.PageSize)
}

func (h *ReviewHandler) GetMyReviews(c echo.Context) error {
	userID := c.Get("uid").(string)

	reviews, err := h.reviewUseCase.GetUserReviews(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}

func (h *ReviewHandler) CheckOrderReviewed(c echo.Context) error {
	orderID := c.Param("orderId")
	if orderID == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	reviewed, err := h.reviewUseCase.HasOrderBeenReviewed(c.Request().Context(), orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"reviewed": reviewed,
	})
}
