package repository

import (
	"context"

	"phonemart/internal/domain/entity"
)

type FavoriteRepository interface {
	// ListByUser returns every favorite of one user, unsorted.
	ListByUser(ctx context.Context, userID string) ([]*entity.FavoriteItem, error)

	// Find returns the favorite for a (user, product) pair, or a NOT_FOUND
	// error when none exists.
	Find(ctx context.Context, userID, productID string) (*entity.FavoriteItem, error)

	// Create inserts a new favorite and assigns its store id.
	Create(ctx context.Context, item *entity.FavoriteItem) error

	Delete(ctx context.Context, id string) error
}
