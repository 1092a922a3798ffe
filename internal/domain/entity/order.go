package entity

import (
	"time"
)

// Order is a partial view; the review workflow only reads identity fields
// and writes the hasReview/reviewId pair. The rest of the order document
// is owned elsewhere.
type Order struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Status    string    `json:"status" firestore:"status"`
	HasReview bool      `json:"has_review" firestore:"hasReview"`
	ReviewID  string    `json:"review_id" firestore:"reviewId"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
