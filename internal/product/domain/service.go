package domain

import (
	"context"
	"errors"
)

type AddRequest struct {
	BarcodeID string
	Name      string
	Category  string
	Stock     int
	CostPrice int64
	SellPrice int64
}

type UpdateRequest struct {
	BarcodeID string
	Name      string
	Category  string
	Stock     int
	CostPrice int64
	SellPrice int64
}

type SearchRequest struct {
	Keyword  string
	Category string
}

type RestockRequest struct {
	BarcodeID string
	Amount    int
}

type Service interface {
	Add(ctx context.Context, req AddRequest) (Product, error)
	Update(ctx context.Context, req UpdateRequest) (Product, error)
	Delete(ctx context.Context, barcodeID string) error
	// Get reports a miss through found=false; absence is not an error.
	Get(ctx context.Context, barcodeID string) (Product, bool, error)
	Search(ctx context.Context, req SearchRequest) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	Restock(ctx context.Context, req RestockRequest) (Product, error)
}

var (
	ErrNotFound         = errors.New("not_found")
	ErrDuplicateBarcode = errors.New("duplicate_barcode")
	ErrInvalidBarcode   = errors.New("invalid_barcode")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrInvalidStock     = errors.New("invalid_stock")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
