package entity

import (
	"time"
)

// FavoriteItem is a denormalized snapshot of a product saved by a user.
// At most one item may exist per (userId, productId) pair; items are
// created and deleted, never updated in place.
type FavoriteItem struct {
	ID                string    `json:"id" firestore:"id"`
	UserID            string    `json:"user_id" firestore:"userId"`
	ProductID         string    `json:"product_id" firestore:"productId"`
	ProductName       string    `json:"product_name" firestore:"productName"`
	ProductPrice      string    `json:"product_price" firestore:"productPrice"`
	ProductPriceValue float64   `json:"product_price_value" firestore:"productPriceValue"`
	ProductImageURL   string    `json:"product_image_url" firestore:"productImageUrl"`
	ProductCategory   string    `json:"product_category" firestore:"productCategory"`
	AddedAt           time.Time `json:"added_at" firestore:"addedAt"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updatedAt"`
}

// NewFavoriteItem snapshots a product for a user's favorites list.
func NewFavoriteItem(userID string, product *Product) *FavoriteItem {
	now := time.Now()
	return &FavoriteItem{
		UserID:            userID,
		ProductID:         product.ID,
		ProductName:       product.Name,
		ProductPrice:      product.Price,
		ProductPriceValue: product.PriceValue,
		ProductImageURL:   product.ImageURL,
		ProductCategory:   product.Category,
		AddedAt:           now,
		UpdatedAt:         now,
	}
}
