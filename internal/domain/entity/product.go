package entity

import (
	"strconv"
	"strings"
)

type Product struct {
	ID            string  `json:"id" firestore:"id"`
	Name          string  `json:"name" firestore:"name"`
	Price         string  `json:"price" firestore:"price"`
	PriceValue    float64 `json:"price_value" firestore:"priceValue"`
	Category      string  `json:"category" firestore:"category"`
	Brand         string  `json:"brand" firestore:"brand"`
	ImageURL      string  `json:"image_url" firestore:"imageUrl"`
	Stock         int     `json:"stock" firestore:"stock"`
	Featured      bool    `json:"featured" firestore:"featured"`
	IsNew         bool    `json:"is_new" firestore:"isNew"`
	AverageRating float64 `json:"average_rating" firestore:"averageRating"`
	TotalReviews  int     `json:"total_reviews" firestore:"totalReviews"`
}

// ParsePriceValue derives the numeric price from a display price string
// such as "25,990,000 ₫". Everything except digits and dots is stripped
// before parsing; an unparsable result yields 0.
func ParsePriceValue(display string) float64 {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}
