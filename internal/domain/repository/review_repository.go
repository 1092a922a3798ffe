package repository

import (
	"context"

	"phonemart/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error

	// ListByProduct and ListByUser return reviews newest first. When the
	// store rejects the ordered query the implementation falls back to an
	// unordered query plus in-memory sort with identical final ordering.
	ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Review, error)

	// GetByOrderID returns the review written for an order, or a NOT_FOUND
	// error when the order has none.
	GetByOrderID(ctx context.Context, orderID string) (*entity.Review, error)
}
