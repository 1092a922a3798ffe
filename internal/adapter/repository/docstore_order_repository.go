package repository

import (
	"context"
	"time"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/internal/infrastructure/docstore"
)

const orderCollection = "orders"

type docstoreOrderRepository struct {
	store docstore.Client
}

func NewDocstoreOrderRepository(store docstore.Client) repository.OrderRepository {
	return &docstoreOrderRepository{store: store}
}

func (r *docstoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.store.GetByID(ctx, orderCollection, id)
	if err != nil {
		return nil, err
	}

	return &entity.Order{
		ID:        doc.ID,
		UserID:    docString(doc.Data, "userId"),
		Status:    docString(doc.Data, "status"),
		HasReview: docBool(doc.Data, "hasReview"),
		ReviewID:  docString(doc.Data, "reviewId"),
		UpdatedAt: docTime(doc.Data, "updatedAt"),
	}, nil
}

func (r *docstoreOrderRepository) MarkReviewed(ctx context.Context, orderID, reviewID string) error {
	return r.store.Update(ctx, orderCollection, orderID, map[string]interface{}{
		"hasReview": true,
		"reviewId":  reviewID,
		"updatedAt": time.Now(),
	})
}
