package domain

import (
	"context"
	"errors"
)

type SellRequest struct {
	BarcodeID string
	Quantity  int
	// UnitPriceOverride replaces the product's sell price for this sale only.
	UnitPriceOverride *int64
}

type SellResult struct {
	Transaction    Transaction `json:"transaction"`
	RemainingStock int         `json:"remaining_stock"`
}

type Service interface {
	Sell(ctx context.Context, req SellRequest) (SellResult, error)
	// List returns all transactions, newest first.
	List(ctx context.Context) ([]Transaction, error)
}

var (
	ErrProductNotFound  = errors.New("product_not_found")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
	// ErrInsufficientStock covers both a non-positive quantity and a quantity
	// above the available stock.
	ErrInsufficientStock = errors.New("insufficient_stock")
)
