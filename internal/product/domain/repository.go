package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	// Find returns nil on a miss.
	Find(ctx context.Context, barcodeID string) (*Product, error)
	// Insert fails with ErrDuplicateBarcode when the key is taken.
	Insert(ctx context.Context, product Product) error
	// Mutate applies fn to the stored product and commits the result in a
	// single store update, so the read and the write cannot interleave with
	// another writer. It fails with ErrNotFound when the key is absent.
	Mutate(ctx context.Context, barcodeID string, fn func(*Product) error) (Product, error)
	// Delete fails with ErrNotFound when the key is absent.
	Delete(ctx context.Context, barcodeID string) error
}
