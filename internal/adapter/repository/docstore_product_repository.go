package repository

import (
	"context"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/internal/infrastructure/docstore"
)

const productCollection = "PhoneDB"

type docstoreProductRepository struct {
	store docstore.Client
}

func NewDocstoreProductRepository(store docstore.Client) repository.ProductRepository {
	return &docstoreProductRepository{store: store}
}

func (r *docstoreProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	docs, err := r.store.Query(ctx, productCollection, docstore.Query{})
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, productFromDoc(doc))
	}

	return products, nil
}

func (r *docstoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.store.GetByID(ctx, productCollection, id)
	if err != nil {
		return nil, err
	}

	return productFromDoc(doc), nil
}

func (r *docstoreProductRepository) UpdateRating(ctx context.Context, id string, averageRating float64, totalReviews int) error {
	return r.store.Update(ctx, productCollection, id, map[string]interface{}{
		"averageRating": averageRating,
		"totalReviews":  totalReviews,
	})
}

func productFromDoc(doc docstore.Document) *entity.Product {
	product := &entity.Product{
		ID:            doc.ID,
		Name:          docString(doc.Data, "name"),
		Price:         docString(doc.Data, "price"),
		Category:      docString(doc.Data, "category"),
		Brand:         docString(doc.Data, "brand"),
		ImageURL:      docString(doc.Data, "imageUrl"),
		Stock:         docInt(doc.Data, "stock"),
		Featured:      docBool(doc.Data, "featured"),
		IsNew:         docBool(doc.Data, "isNew"),
		AverageRating: docFloat(doc.Data, "averageRating"),
		TotalReviews:  docInt(doc.Data, "totalReviews"),
	}

	// priceValue is derived, never trusted from the record.
	product.PriceValue = entity.ParsePriceValue(product.Price)

	return product
}
