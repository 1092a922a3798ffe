package repository

import (
	"context"
	"time"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/internal/infrastructure/docstore"
	"phonemart/pkg/errors"
)

const favoriteCollection = "favorites"

type docstoreFavoriteRepository struct {
	store docstore.Client
}

func NewDocstoreFavoriteRepository(store docstore.Client) repository.FavoriteRepository {
	return &docstoreFavoriteRepository{store: store}
}

func (r *docstoreFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.FavoriteItem, error) {
	docs, err := r.store.Query(ctx, favoriteCollection, docstore.Query{
		Filters: []docstore.Filter{{Field: "userId", Value: userID}},
	})
	if err != nil {
		return nil, err
	}

	items := make([]*entity.FavoriteItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, favoriteFromDoc(doc))
	}

	return items, nil
}

func (r *docstoreFavoriteRepository) Find(ctx context.Context, userID, productID string) (*entity.FavoriteItem, error) {
	docs, err := r.store.Query(ctx, favoriteCollection, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "userId", Value: userID},
			{Field: "productId", Value: productID},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, errors.NotFound("Favorite", nil)
	}

	return favoriteFromDoc(docs[0]), nil
}

func (r *docstoreFavoriteRepository) Create(ctx context.Context, item *entity.FavoriteItem) error {
	now := time.Now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	id, err := r.store.Insert(ctx, favoriteCollection, favoriteToDoc(item))
	if err != nil {
		return err
	}

	item.ID = id
	return nil
}

func (r *docstoreFavoriteRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, favoriteCollection, id)
}

func favoriteFromDoc(doc docstore.Document) *entity.FavoriteItem {
	return &entity.FavoriteItem{
		ID:                doc.ID,
		UserID:            docString(doc.Data, "userId"),
		ProductID:         docString(doc.Data, "productId"),
		ProductName:       docString(doc.Data, "productName"),
		ProductPrice:      docString(doc.Data, "productPrice"),
		ProductPriceValue: docFloat(doc.Data, "productPriceValue"),
		ProductImageURL:   docString(doc.Data, "productImageUrl"),
		ProductCategory:   docString(doc.Data, "productCategory"),
		AddedAt:           docTime(doc.Data, "addedAt"),
		UpdatedAt:         docTime(doc.Data, "updatedAt"),
	}
}

func favoriteToDoc(item *entity.FavoriteItem) map[string]interface{} {
	return map[string]interface{}{
		"userId":            item.UserID,
		"productId":         item.ProductID,
		"productName":       item.ProductName,
		"productPrice":      item.ProductPrice,
		"productPriceValue": item.ProductPriceValue,
		"productImageUrl":   item.ProductImageURL,
		"productCategory":   item.ProductCategory,
		"addedAt":           item.AddedAt,
		"updatedAt":         item.UpdatedAt,
	}
}
