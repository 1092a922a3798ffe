package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/internal/infrastructure/docstore"
	"phonemart/pkg/errors"
	"phonemart/pkg/logger"
)

const reviewCollection = "reviews"

type docstoreReviewRepository struct {
	store docstore.Client
}

func NewDocstoreReviewRepository(store docstore.Client) repository.ReviewRepository {
	return &docstoreReviewRepository{store: store}
}

func (r *docstoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = now
	}

	return r.store.InsertAt(ctx, reviewCollection, review.ID, reviewToDoc(review))
}

func (r *docstoreReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	return r.listOrdered(ctx, docstore.Filter{Field: "productId", Value: productID})
}

func (r *docstoreReviewRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	return r.listOrdered(ctx, docstore.Filter{Field: "userId", Value: userID})
}

func (r *docstoreReviewRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Review, error) {
	docs, err := r.store.Query(ctx, reviewCollection, docstore.Query{
		Filters: []docstore.Filter{{Field: "orderId", Value: orderID}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, errors.NotFound("Review for order", nil)
	}

	return reviewFromDoc(docs[0]), nil
}

// listOrdered queries newest-first. A store without the composite index
// answers the ordered query with PRECONDITION_FAILED; in that case the
// same query is re-issued unordered and sorted here. Both paths finish
// with the in-memory sort so the final ordering is identical either way,
// with missing createdAt sorting last.
func (r *docstoreReviewRepository) listOrdered(ctx context.Context, filter docstore.Filter) ([]*entity.Review, error) {
	docs, err := r.store.Query(ctx, reviewCollection, docstore.Query{
		Filters: []docstore.Filter{filter},
		Order:   &docstore.OrderBy{Field: "createdAt", Desc: true},
	})
	if errors.Is(err, errors.CodePreconditionFailed) {
		logger.Warn("Ordered review query rejected, falling back to unordered: %v", err)
		docs, err = r.store.Query(ctx, reviewCollection, docstore.Query{
			Filters: []docstore.Filter{filter},
		})
	}
	if err != nil {
		return nil, err
	}

	reviews := make([]*entity.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, reviewFromDoc(doc))
	}

	sortReviewsNewestFirst(reviews)
	return reviews, nil
}

func sortReviewsNewestFirst(reviews []*entity.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i].CreatedAt, reviews[j].CreatedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
}

func reviewFromDoc(doc docstore.Document) *entity.Review {
	return &entity.Review{
		ID:                 doc.ID,
		OrderID:            docString(doc.Data, "orderId"),
		UserID:             docString(doc.Data, "userId"),
		UserName:           docString(doc.Data, "userName"),
		ProductID:          docString(doc.Data, "productId"),
		ProductName:        docString(doc.Data, "productName"),
		VariantID:          docString(doc.Data, "variantId"),
		VariantName:        docString(doc.Data, "variantName"),
		VariantColor:       docString(doc.Data, "variantColor"),
		VariantRam:         docString(doc.Data, "variantRam"),
		VariantStorage:     docString(doc.Data, "variantStorage"),
		Rating:             docFloat(doc.Data, "rating"),
		Comment:            docString(doc.Data, "comment"),
		ReviewImages:       docStrings(doc.Data, "reviewImages"),
		IsVerifiedPurchase: docBool(doc.Data, "isVerifiedPurchase"),
		CreatedAt:          docTime(doc.Data, "createdAt"),
		UpdatedAt:          docTime(doc.Data, "updatedAt"),
	}
}

func reviewToDoc(review *entity.Review) map[string]interface{} {
	return map[string]interface{}{
		"reviewId":           review.ID,
		"orderId":            review.OrderID,
		"userId":             review.UserID,
		"userName":           review.UserName,
		"productId":          review.ProductID,
		"productName":        review.ProductName,
		"variantId":          review.VariantID,
		"variantName":        review.VariantName,
		"variantColor":       review.VariantColor,
		"variantRam":         review.VariantRam,
		"variantStorage":     review.VariantStorage,
		"rating":             review.Rating,
		"comment":            review.Comment,
		"reviewImages":       review.ReviewImages,
		"isVerifiedPurchase": review.IsVerifiedPurchase,
		"createdAt":          review.CreatedAt,
		"updatedAt":          review.UpdatedAt,
	}
}
