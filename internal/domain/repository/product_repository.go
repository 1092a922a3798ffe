package repository

import (
	"context"

	"phonemart/internal/domain/entity"
)

type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// UpdateRating writes the recomputed aggregate pair onto the product
	// document; nothing else on the record is touched.
	UpdateRating(ctx context.Context, id string, averageRating float64, totalReviews int) error
}
