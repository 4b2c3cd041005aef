package domain

import (
	"strings"
	"time"
)

// Category is the fixed product classification set.
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryBeverage   Category = "Beverage"
	CategorySnack      Category = "Snack"
	CategoryStationery Category = "Stationery"
	CategoryOther      Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryBeverage,
	CategorySnack,
	CategoryStationery,
	CategoryOther,
}

// Categories returns all valid categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches raw against the category set, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Product is a catalog entry keyed by its barcode identifier. Prices are
// integer rupiah.
type Product struct {
	BarcodeID string    `json:"barcode_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Stock     int       `json:"stock"`
	CostPrice int64     `json:"cost_price"`
	SellPrice int64     `json:"sell_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
