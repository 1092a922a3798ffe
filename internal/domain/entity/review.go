package entity

import (
	"time"
)

// Review is written once from a completed order and is append-only
// history afterwards; no update or delete path exists.
type Review struct {
	ID                 string    `json:"id" firestore:"reviewId"`
	OrderID            string    `json:"order_id" firestore:"orderId"`
	UserID             string    `json:"user_id" firestore:"userId"`
	UserName           string    `json:"user_name" firestore:"userName"`
	ProductID          string    `json:"product_id" firestore:"productId"`
	ProductName        string    `json:"product_name" firestore:"productName"`
	VariantID          string    `json:"variant_id" firestore:"variantId"`
	VariantName        string    `json:"variant_name" firestore:"variantName"`
	VariantColor       string    `json:"variant_color" firestore:"variantColor"`
	VariantRam         string    `json:"variant_ram" firestore:"variantRam"`
	VariantStorage     string    `json:"variant_storage" firestore:"variantStorage"`
	Rating             float64   `json:"rating" firestore:"rating"`
	Comment            string    `json:"comment" firestore:"comment"`
	ReviewImages       []string  `json:"review_images" firestore:"reviewImages"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase" firestore:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
}
