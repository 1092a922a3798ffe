package repository

import (
	"context"

	"phonemart/internal/domain/entity"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// MarkReviewed sets the hasReview/reviewId pair on an order document.
	MarkReviewed(ctx context.Context, orderID, reviewID string) error
}
