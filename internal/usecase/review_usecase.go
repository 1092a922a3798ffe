package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/pkg/errors"
	"phonemart/pkg/logger"
)

// ReviewUseCase creates reviews and propagates their effects onto two
// other denormalized records: the source order's review flag and the
// product's aggregate rating. There is no cross-record transaction; the
// review document is the durable source of truth and both follow-up
// writes are best-effort and re-derivable.
type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository

	keys     keyedMutex
	cascades sync.WaitGroup
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// CreateReview persists the review and answers the caller as soon as
// that write lands. The order flag and the rating recompute then run
// detached; their failures are logged, never surfaced, because both can
// be re-derived from the reviews collection at any time.
func (u *ReviewUseCase) CreateReview(ctx context.Context, review *entity.Review) error {
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

	// The workflow only fires from a completed order.
	review.IsVerifiedPurchase = true

	// The keyed lock makes the reviewed-check and the write atomic per
	// order, so two concurrent submissions cannot both pass the gate.
	unlock := u.keys.lock(review.OrderID)
	reviewed, err := u.HasOrderBeenReviewed(ctx, review.OrderID)
	if err == nil && reviewed {
		err = errors.Conflict("Order has already been reviewed")
	}
	if err == nil {
		err = u.reviewRepo.Create(ctx, review)
	}
	unlock()
	if err != nil {
		return err
	}

	u.cascades.Add(1)
	go func(orderID, reviewID, productID string) {
		defer u.cascades.Done()

		// Detached from the caller's context on purpose: a finished
		// request must not cancel the follow-up writes.
		ctx := context.Background()

		if err := u.orderRepo.MarkReviewed(ctx, orderID, reviewID); err != nil {
			logger.LogCascadeError("order_flag", orderID, err)
		}

		if err := u.RecomputeProductRating(ctx, productID); err != nil {
			logger.LogCascadeError("product_rating", productID, err)
		}
	}(review.OrderID, review.ID, review.ProductID)

	return nil
}

// RecomputeProductRating rebuilds the product's (averageRating,
// totalReviews) pair from the full review set. It is always a full
// recompute: a missed run cannot desynchronize the aggregate for good,
// the next review's cascade converges it again.
func (u *ReviewUseCase) RecomputeProductRating(ctx context.Context, productID string) error {
	reviews, err := u.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		// Possible under read-after-write lag right after a create; the
		// stored aggregate is left alone rather than zeroed.
		logger.Warn("No reviews visible for product %s, skipping rating update", productID)
		return nil
	}

	var sum float64
	for _, review := range reviews {
		sum += review.Rating
	}

	average := sum / float64(len(reviews))
	return u.productRepo.UpdateRating(ctx, productID, average, len(reviews))
}

func (u *ReviewUseCase) GetReviewsByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	return u.reviewRepo.ListByProduct(ctx, productID)
}

func (u *ReviewUseCase) GetUserReviews(ctx context.Context, userID string) ([]*entity.Review, error) {
	return u.reviewRepo.ListByUser(ctx, userID)
}

// HasOrderBeenReviewed gates the review action: each order may be
// reviewed exactly once.
func (u *ReviewUseCase) HasOrderBeenReviewed(ctx context.Context, orderID string) (bool, error) {
	_, err := u.reviewRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
